package brain

import (
	"github.com/wonny/earnings-analyzer/backend/internal/s0_coordinator"
	"github.com/wonny/earnings-analyzer/backend/internal/s1_extraction"
	"github.com/wonny/earnings-analyzer/backend/internal/s2_sentiment"
	"github.com/wonny/earnings-analyzer/backend/internal/s3_summary"
	"github.com/wonny/earnings-analyzer/backend/internal/stage"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// PipelineConfig collects the collaborators the four stages need.
// Zero values fall back to built-in defaults.
type PipelineConfig struct {
	Source     s0_coordinator.DocumentSource
	Classifier s2_sentiment.Classifier // nil = heuristic only
	Heuristic  *s2_sentiment.HeuristicStrategy
	Thresholds *s3_summary.Thresholds
}

// NewPipeline builds the stage registry S0 → S3.
// 프로세스 또는 테스트마다 한 번 생성
func NewPipeline(cfg PipelineConfig, log *logger.Logger) (*stage.Registry, error) {
	source := cfg.Source
	if source == nil {
		source = s0_coordinator.NewFileSource(nil)
	}

	heuristic := cfg.Heuristic
	if heuristic == nil {
		heuristic = s2_sentiment.NewDefaultHeuristic()
	}

	thresholds := s3_summary.DefaultThresholds()
	if cfg.Thresholds != nil {
		thresholds = *cfg.Thresholds
	}

	return stage.NewRegistry(log,
		s0_coordinator.New(source, log),
		s1_extraction.New(log),
		s2_sentiment.New(cfg.Classifier, heuristic, log),
		s3_summary.New(thresholds, log),
	)
}
