// Package metrics 定义 tagrec 的 Prometheus 指标。
//
// 模型指标：
//   - tagrec_model_build_duration_seconds：模型构建耗时（histogram）
//   - tagrec_model_items / tagrec_model_tags：最近一次加载的模型规模（gauge）
//   - tagrec_model_snapshot_total：模型快照读写结果（counter，label: result）
//
// 打分指标：
//   - tagrec_score_requests_total：打分请求数（counter）
//   - tagrec_score_candidates_total：候选物品打分结果（counter，label: outcome）
//   - tagrec_profile_empty_total：画像为零向量或空向量的请求数（counter，label: reason）
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 快照结果 label 值
const (
	SnapshotHit   = "hit"
	SnapshotMiss  = "miss"
	SnapshotSaved = "saved"
	SnapshotError = "error"
)

// 打分结果 label 值
const (
	OutcomeScored   = "scored"
	OutcomeUnscored = "unscored"
)

// 空画像原因 label 值
const (
	ProfileUnknownUser = "unknown_user"
	ProfileNoRatings   = "no_ratings"
	ProfileZero        = "zero"
)

var (
	ModelBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tagrec_model_build_duration_seconds",
			Help:    "Duration of TF-IDF model builds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)

	ModelItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tagrec_model_items",
			Help: "Number of items in the loaded TF-IDF model",
		},
	)

	ModelTags = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tagrec_model_tags",
			Help: "Size of the tag vocabulary of the loaded TF-IDF model",
		},
	)

	ModelSnapshots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagrec_model_snapshot_total",
			Help: "Model snapshot reads and writes by result",
		},
		[]string{"result"},
	)

	ScoreRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagrec_score_requests_total",
			Help: "Number of user scoring requests",
		},
	)

	ScoreCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagrec_score_candidates_total",
			Help: "Candidate items scored, by outcome",
		},
		[]string{"outcome"},
	)

	ProfileEmpty = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagrec_profile_empty_total",
			Help: "Scoring requests whose user profile carried no signal, by reason",
		},
		[]string{"reason"},
	)
)
