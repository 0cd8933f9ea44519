package core

import "github.com/google/uuid"

// RecommendContext 承载一次推荐请求的用户与请求级信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64

	// RequestID 用于日志关联，NewRecommendContext 会自动生成
	RequestID string

	// Labels 是请求级标签，可驱动 Pipeline 行为或用于 explain
	Labels map[string]Label

	// Params 请求级参数，可在 CEL 表达式中通过 rctx.params 访问
	Params map[string]any
}

// NewRecommendContext 为用户创建一个新的请求上下文。
func NewRecommendContext(userID int64) *RecommendContext {
	return &RecommendContext{
		UserID:    userID,
		RequestID: uuid.NewString(),
		Labels:    make(map[string]Label),
		Params:    make(map[string]any),
	}
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl Label) {
	rctx.Labels = putLabel(rctx.Labels, key, lbl)
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (Label, bool) {
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
