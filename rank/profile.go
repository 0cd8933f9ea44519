package rank

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/metrics"
	"github.com/rushteam/tagrec/tfidf"
	"github.com/rushteam/tagrec/vector"
)

// ProfileBuilder 根据用户评分历史构建标签空间中的口味画像。
//
// 画像 = Σ (rating - mean) * itemVector，mean 只在有数值的评分上计算，
// 取消评分的记录不参与。画像定义域是完整词表，不做收缩。
type ProfileBuilder struct {
	Ratings core.RatingDAO
	Model   *tfidf.Model
}

// Build 返回用户画像：
//   - 未知用户返回空向量（vector.Empty）
//   - 没有有效评分的用户返回全 0 向量
//   - 不在模型中的物品不贡献任何分量
func (b *ProfileBuilder) Build(ctx context.Context, userID int64) (*vector.SparseVector, error) {
	ratings, found, err := b.Ratings.UserRatings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		metrics.ProfileEmpty.WithLabelValues(metrics.ProfileUnknownUser).Inc()
		return vector.Empty(), nil
	}

	profile := b.Model.NewTagVector()

	sum, n := 0.0, 0
	for _, r := range ratings {
		if v, ok := r.Value(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		metrics.ProfileEmpty.WithLabelValues(metrics.ProfileNoRatings).Inc()
		return profile.Freeze(), nil
	}
	mean := sum / float64(n)

	for _, r := range ratings {
		v, ok := r.Value()
		if !ok {
			continue
		}
		profile.AddScaled(b.Model.ItemVector(r.ItemID), v-mean)
	}

	if profile.Norm() == 0 {
		metrics.ProfileEmpty.WithLabelValues(metrics.ProfileZero).Inc()
	}
	return profile.Freeze(), nil
}
