package s2_sentiment

import (
	"context"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/internal/stage"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// Scorer is the sentiment stage (S2)
type Scorer struct {
	strategy Strategy
	logger   *logger.Logger
}

// New creates the stage. With a nil classifier only the heuristic is used.
func New(classifier Classifier, heuristic *HeuristicStrategy, log *logger.Logger) *Scorer {
	if heuristic == nil {
		heuristic = NewDefaultHeuristic()
	}

	var strategy Strategy = heuristic
	if classifier != nil {
		strategy = NewExternal(classifier, heuristic, log)
	}

	return &Scorer{
		strategy: strategy,
		logger:   log,
	}
}

// Strategy returns the configured strategy name
func (s *Scorer) Strategy() string {
	return s.strategy.Name()
}

// Name implements stage.Stage
func (s *Scorer) Name() contracts.StageName {
	return contracts.StageSentiment
}

// Validate implements stage.Stage
func (s *Scorer) Validate(input contracts.Input) bool {
	return stage.DefaultValidate(input)
}

// Execute scores the report in actx
func (s *Scorer) Execute(ctx context.Context, input contracts.Input, actx *contracts.AnalysisContext) (*contracts.StageResult, error) {
	if !actx.HasReport() {
		return contracts.FailedResult(s.Name(), "no report content available for sentiment analysis"), nil
	}

	analysis := s.strategy.Analyze(ctx, actx.ReportContent)
	actx.Sentiment = analysis

	s.logger.WithFields(map[string]interface{}{
		"run_id":     actx.RunID,
		"sentiment":  analysis.OverallSentiment,
		"confidence": analysis.Confidence,
		"strategy":   analysis.Strategy,
	}).Info("Sentiment analyzed")

	return contracts.NewStageResult(s.Name(), map[string]interface{}{
		"sentiment_analysis": analysis,
	}), nil
}
