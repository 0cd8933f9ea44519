package rank

import "github.com/rushteam/tagrec/vector"

// Cosine 计算两个向量的余弦相似度。
// 任一向量范数为 0 时相似度无定义，返回 ok == false；结果截断到 [-1, 1]。
func Cosine(p, i *vector.SparseVector) (score float64, ok bool) {
	pn, in := p.Norm(), i.Norm()
	if pn == 0 || in == 0 {
		return 0, false
	}
	score = p.Dot(i) / (pn * in)
	return max(-1, min(1, score)), true
}
