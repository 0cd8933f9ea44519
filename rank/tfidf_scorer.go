package rank

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/metrics"
	"github.com/rushteam/tagrec/tfidf"
)

// TFIDFScorer 用用户画像与物品 TF-IDF 向量的余弦相似度给候选物品打分。
// 打分无副作用，可以被多个 goroutine 同时调用。
type TFIDFScorer struct {
	Model    *tfidf.Model
	Profiles *ProfileBuilder
}

// NewTFIDFScorer 使用同一个模型构建画像与打分。
func NewTFIDFScorer(model *tfidf.Model, ratings core.RatingDAO) *TFIDFScorer {
	return &TFIDFScorer{
		Model:    model,
		Profiles: &ProfileBuilder{Ratings: ratings, Model: model},
	}
}

// Score 为候选物品打分。相似度无定义的物品（未知用户、零画像、零向量物品）
// 不出现在返回结果中。
func (s *TFIDFScorer) Score(ctx context.Context, userID int64, candidates []int64) (map[int64]float64, error) {
	metrics.ScoreRequests.Inc()

	profile, err := s.Profiles.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	scores := make(map[int64]float64, len(candidates))
	for _, id := range candidates {
		score, ok := Cosine(profile, s.Model.ItemVector(id))
		if !ok {
			continue
		}
		scores[id] = score
	}

	metrics.ScoreCandidates.WithLabelValues(metrics.OutcomeScored).Add(float64(len(scores)))
	metrics.ScoreCandidates.WithLabelValues(metrics.OutcomeUnscored).Add(float64(len(candidates) - len(scores)))
	return scores, nil
}
