// Package tagrec 是一个基于物品标签 TF-IDF 的内容推荐工具包。
//
// 设计要点：
// - Model-first: 物品标签语料一次性构建为不可变的 TF-IDF 模型（tfidf 包），可快照到 Store
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测
package tagrec

import "github.com/rushteam/tagrec/pipeline"

// 轻量 facade：便于用户直接 import "tagrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
