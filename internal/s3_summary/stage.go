package s3_summary

import (
	"context"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/internal/stage"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// Synthesizer is the recommendation stage (S3)
type Synthesizer struct {
	thresholds Thresholds
	logger     *logger.Logger
}

// New creates the stage
func New(thresholds Thresholds, log *logger.Logger) *Synthesizer {
	return &Synthesizer{
		thresholds: thresholds,
		logger:     log,
	}
}

// Name implements stage.Stage
func (s *Synthesizer) Name() contracts.StageName {
	return contracts.StageSummary
}

// Validate implements stage.Stage
func (s *Synthesizer) Validate(input contracts.Input) bool {
	return stage.DefaultValidate(input)
}

// Execute builds the executive summary from whatever upstream sections exist
func (s *Synthesizer) Execute(ctx context.Context, input contracts.Input, actx *contracts.AnalysisContext) (*contracts.StageResult, error) {
	if actx.Financials == nil && actx.Sentiment == nil {
		return contracts.FailedResult(s.Name(), "no upstream analysis available for summary"), nil
	}

	summary := s.Summarize(actx)
	actx.Summary = summary

	s.logger.WithFields(map[string]interface{}{
		"run_id":         actx.RunID,
		"recommendation": summary.Recommendation,
		"confidence":     summary.ConfidenceScore,
	}).Info("Summary generated")

	return contracts.NewStageResult(s.Name(), map[string]interface{}{
		"executive_summary": summary,
	}), nil
}

// Summarize derives the summary, defaulting every missing field
// (sentiment neutral/0.5, margin 0, revenue YoY 0)
func (s *Synthesizer) Summarize(actx *contracts.AnalysisContext) *contracts.ExecutiveSummary {
	f := facts{sentiment: contracts.SentimentNeutral}
	sentimentConfidence := 0.5

	if fm := actx.Financials; fm != nil {
		f.revenue = fm.Revenue
		f.netIncome = fm.NetIncome
		if fm.OperatingMargin != nil {
			f.margin = fm.OperatingMargin.Current
		}
	}
	if seg := actx.Segments; seg != nil && seg.CloudServices != nil {
		revenue := seg.CloudServices.Revenue
		f.cloudRevenue = &revenue
		f.cloudGrowth = seg.CloudServices.GrowthRate
	}
	if sa := actx.Sentiment; sa != nil {
		if sa.OverallSentiment != "" {
			f.sentiment = sa.OverallSentiment
		}
		sentimentConfidence = sa.Confidence
	}

	revenueYoY := 0.0
	if f.revenue != nil {
		revenueYoY = f.revenue.YoYChange
	}

	total := s.thresholds.Score(revenueYoY, f.margin, f.sentiment)

	return &contracts.ExecutiveSummary{
		Headline:        Headline(f.sentiment, revenueYoY),
		Summary:         narrative(f),
		Recommendation:  s.thresholds.Recommendation(total),
		ConfidenceScore: Confidence(sentimentConfidence, f.margin),
	}
}
