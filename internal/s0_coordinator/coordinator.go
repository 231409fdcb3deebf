package s0_coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/internal/stage"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// SourceInline marks reports passed directly as content
const SourceInline = "inline"

// Coordinator loads the report and prepares the run context (S0)
// ⭐ SSOT: 리포트 본문은 여기서만 컨텍스트에 기록
type Coordinator struct {
	source DocumentSource
	logger *logger.Logger
}

// New creates a coordinator reading paths through source
func New(source DocumentSource, log *logger.Logger) *Coordinator {
	return &Coordinator{
		source: source,
		logger: log,
	}
}

// Name implements stage.Stage
func (c *Coordinator) Name() contracts.StageName {
	return contracts.StageCoordinator
}

// Validate requires report_content or report_path
func (c *Coordinator) Validate(input contracts.Input) bool {
	if !stage.DefaultValidate(input) {
		return false
	}
	return input.Has(contracts.InputReportContent) || input.Has(contracts.InputReportPath)
}

// Execute resolves the report body and writes it with the execution plan into actx
func (c *Coordinator) Execute(ctx context.Context, input contracts.Input, actx *contracts.AnalysisContext) (*contracts.StageResult, error) {
	content, source, failure := c.resolve(ctx, input)
	if failure != "" {
		return contracts.FailedResult(c.Name(), failure), nil
	}

	if content == "" {
		return contracts.FailedResult(c.Name(), "report content is empty"), nil
	}

	plan := &contracts.ExecutionPlan{
		AgentsToExecute: contracts.AnalysisStages(),
		ReportLength:    len(content),
		InitializedAt:   time.Now(),
	}

	actx.ReportContent = content
	actx.ReportSource = source
	actx.ExecutionPlan = plan

	c.logger.WithFields(map[string]interface{}{
		"run_id":        actx.RunID,
		"source":        source,
		"report_length": plan.ReportLength,
	}).Info("Report loaded")

	return contracts.NewStageResult(c.Name(), map[string]interface{}{
		"coordination_status": "ready",
		"execution_plan":      plan,
	}), nil
}

// resolve returns (content, source, failure message)
func (c *Coordinator) resolve(ctx context.Context, input contracts.Input) (string, string, string) {
	if input.Has(contracts.InputReportContent) {
		content, ok := input.String(contracts.InputReportContent)
		if !ok {
			return "", "", "report_content must be a string"
		}
		return content, SourceInline, ""
	}

	path, ok := input.String(contracts.InputReportPath)
	if !ok || path == "" {
		return "", "", "no report_path or report_content provided"
	}

	content, err := c.source.Load(ctx, path)
	if err != nil {
		return "", path, fmt.Sprintf("failed to read report file: %v", err)
	}
	return content, path, ""
}
