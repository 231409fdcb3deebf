package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// ReportAnalyzer runs the pipeline over a report path
type ReportAnalyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*contracts.AnalysisReport, error)
}

// ResultsDirName is the subdirectory holding written reports
const ResultsDirName = "analyses"

var reportExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
}

// ReportBatchJob analyses new or changed report files in a directory
// ⭐ SSOT: 배치 분석 대상 선정은 여기서만
type ReportBatchJob struct {
	analyzer ReportAnalyzer
	dir      string
	schedule string
	logger   *logger.Logger

	mu   sync.Mutex
	seen map[string]time.Time // 경로 → 마지막으로 분석한 수정 시각
	last *BatchResult
}

// NewReportBatchJob creates a new batch job over dir
func NewReportBatchJob(analyzer ReportAnalyzer, dir, schedule string, log *logger.Logger) *ReportBatchJob {
	return &ReportBatchJob{
		analyzer: analyzer,
		dir:      dir,
		schedule: schedule,
		logger:   log,
		seen:     make(map[string]time.Time),
	}
}

// Name returns the job name
func (j *ReportBatchJob) Name() string {
	return "report_batch"
}

// Schedule returns the cron schedule
func (j *ReportBatchJob) Schedule() string {
	return j.schedule
}

// BatchResult summarizes one batch pass
type BatchResult struct {
	Analyzed []string
	Failed   []string // 리포트에 에러가 남은 파일
	Skipped  int
}

// Run executes one batch pass
func (j *ReportBatchJob) Run(ctx context.Context) error {
	result, err := j.RunOnce(ctx)
	if result != nil {
		j.mu.Lock()
		j.last = result
		j.mu.Unlock()
	}
	return err
}

// Describe summarizes the last pass for the job history
func (j *ReportBatchJob) Describe() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.last == nil {
		return ""
	}
	return fmt.Sprintf("analyzed=%d failed=%d skipped=%d", len(j.last.Analyzed), len(j.last.Failed), j.last.Skipped)
}

// RunOnce analyses pending files and writes <dir>/analyses/<file name>.json for each
func (j *ReportBatchJob) RunOnce(ctx context.Context) (*BatchResult, error) {
	pending, skipped, err := j.pending()
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Skipped: skipped}
	if len(pending) == 0 {
		j.logger.WithField("dir", j.dir).Debug("No new reports to analyze")
		return result, nil
	}

	outDir := filepath.Join(j.dir, ResultsDirName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results dir: %w", err)
	}

	for _, f := range pending {
		report, err := j.analyzer.AnalyzeFile(ctx, f.path)
		if err != nil {
			return result, fmt.Errorf("batch aborted at %s: %w", f.path, err)
		}

		if err := writeReport(outDir, f.path, report); err != nil {
			return result, err
		}

		j.mu.Lock()
		j.seen[f.path] = f.modTime
		j.mu.Unlock()

		result.Analyzed = append(result.Analyzed, f.path)
		if !report.Succeeded() {
			result.Failed = append(result.Failed, f.path)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"dir":      j.dir,
		"analyzed": len(result.Analyzed),
		"failed":   len(result.Failed),
		"skipped":  result.Skipped,
	}).Info("Report batch completed")

	return result, nil
}

type reportFile struct {
	path    string
	modTime time.Time
}

func (j *ReportBatchJob) pending() ([]reportFile, int, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read reports dir: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	var out []reportFile
	skipped := 0
	for _, e := range entries {
		if e.IsDir() || !reportExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(j.dir, e.Name())
		if last, ok := j.seen[path]; ok && !info.ModTime().After(last) {
			skipped++
			continue
		}
		out = append(out, reportFile{path: path, modTime: info.ModTime()})
	}

	sort.Slice(out, func(a, b int) bool { return out[a].path < out[b].path })
	return out, skipped, nil
}

func writeReport(outDir, source string, report *contracts.AnalysisReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	// 확장자 유지: q3.txt 와 q3.md 가 같은 결과 파일을 덮어쓰지 않도록
	path := filepath.Join(outDir, filepath.Base(source)+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
