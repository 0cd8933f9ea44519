// Package dsl 提供基于 CEL 的表达式求值，用于在 Pipeline 中按物品分数、Label 和请求参数做判断。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/tagrec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once

	// programs 缓存已编译的表达式：expr -> cel.Program
	programs sync.Map
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Compile 编译表达式并缓存，同一表达式只编译一次。
func Compile(expr string) (cel.Program, error) {
	if prg, ok := programs.Load(expr); ok {
		return prg.(cel.Program), nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	actual, _ := programs.LoadOrStore(expr, prg)
	return actual.(cel.Program), nil
}

// Eval 是 Label DSL 解释器，使用 CEL (Common Expression Language) 实现。
//
// 可用变量：
//   - item.id / item.score / item.meta / item.labels
//   - label.<key>：物品 Label 的 Value
//   - rctx.user_id / rctx.request_id / rctx.params
//
// 示例：
//   - `item.score > 0.5`
//   - `label.rank_model == "tfidf" && item.score >= rctx.params.min_score`
//   - `"recall_source" in label && label.recall_source.contains("catalog")`
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	return &Eval{item: item, rctx: rctx}
}

// Evaluate 执行表达式，返回布尔结果。空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}

	prg, err := Compile(expr)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]any {
	labels := make(map[string]any, len(e.item.Labels))
	values := make(map[string]any, len(e.item.Labels))
	for k, v := range e.item.Labels {
		labels[k] = map[string]any{
			"value":  v.Value,
			"source": v.Source,
		}
		values[k] = v.Value
	}

	meta := e.item.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	item := map[string]any{
		"id":     e.item.ID,
		"score":  e.item.Score,
		"meta":   meta,
		"labels": labels,
	}

	rctx := map[string]any{
		"user_id":    int64(0),
		"request_id": "",
		"params":     map[string]any{},
	}
	if e.rctx != nil {
		rctx["user_id"] = e.rctx.UserID
		rctx["request_id"] = e.rctx.RequestID
		if e.rctx.Params != nil {
			rctx["params"] = e.rctx.Params
		}
	}

	return map[string]any{
		"item":  item,
		"label": values,
		"rctx":  rctx,
	}
}
