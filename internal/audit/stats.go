package audit

import (
	"context"
	"math"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

// Stats aggregates recent analyses
type Stats struct {
	Total             int            `json:"total"`
	Failed            int            `json:"failed"` // 에러가 하나 이상인 분석
	FailureRate       float64        `json:"failure_rate"`
	Recommendations   map[string]int `json:"recommendations"`
	AvgProcessingSecs float64        `json:"avg_processing_time_seconds"`
	MaxProcessingSecs float64        `json:"max_processing_time_seconds"`
}

// Summarize computes Stats over summaries
func Summarize(summaries []ReportSummary) *Stats {
	stats := &Stats{
		Recommendations: map[string]int{
			contracts.RecommendationBuy:  0,
			contracts.RecommendationHold: 0,
			contracts.RecommendationSell: 0,
		},
	}
	if len(summaries) == 0 {
		return stats
	}

	total := 0.0
	for _, s := range summaries {
		stats.Total++
		if s.ErrorCount > 0 {
			stats.Failed++
		}
		if s.Recommendation != "" {
			stats.Recommendations[s.Recommendation]++
		}
		total += s.ProcessingSecs
		stats.MaxProcessingSecs = math.Max(stats.MaxProcessingSecs, s.ProcessingSecs)
	}

	stats.FailureRate = round4(float64(stats.Failed) / float64(stats.Total))
	stats.AvgProcessingSecs = round4(total / float64(stats.Total))
	return stats
}

// RecentStats summarizes the latest limit analyses
func (r *Repository) RecentStats(ctx context.Context, limit int) (*Stats, error) {
	summaries, err := r.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return Summarize(summaries), nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
