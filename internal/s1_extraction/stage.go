package s1_extraction

import (
	"context"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/internal/stage"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// Extractor is the metric extraction stage (S1)
type Extractor struct {
	logger *logger.Logger
}

// New creates the extraction stage
func New(log *logger.Logger) *Extractor {
	return &Extractor{logger: log}
}

// Name implements stage.Stage
func (e *Extractor) Name() contracts.StageName {
	return contracts.StageExtractor
}

// Validate implements stage.Stage
func (e *Extractor) Validate(input contracts.Input) bool {
	return stage.DefaultValidate(input)
}

// Execute extracts metrics from the report in actx
func (e *Extractor) Execute(ctx context.Context, input contracts.Input, actx *contracts.AnalysisContext) (*contracts.StageResult, error) {
	if !actx.HasReport() {
		return contracts.FailedResult(e.Name(), "no report content available for extraction"), nil
	}

	ex := Extract(actx.ReportContent)

	actx.Financials = ex.Financials
	actx.Segments = ex.Segments
	actx.Guidance = ex.Guidance
	if actx.Provenance == nil {
		actx.Provenance = contracts.Provenance{}
	}
	actx.Provenance.Merge(ex.Provenance)

	defaulted := ex.Provenance.Defaulted()
	e.logger.WithFields(map[string]interface{}{
		"run_id":    actx.RunID,
		"defaulted": len(defaulted),
	}).Debug("Metrics extracted")

	result := contracts.NewStageResult(e.Name(), map[string]interface{}{
		"financial_metrics":   ex.Financials,
		"segment_performance": ex.Segments,
		"forward_guidance":    ex.Guidance,
	})
	result.Metadata = map[string]interface{}{"defaulted_fields": defaulted}
	return result, nil
}
