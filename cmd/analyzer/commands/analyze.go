package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/earnings-analyzer/backend/internal/brain"
	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path|url]",
	Short: "실적 보고서 1건 분석",
	Long: `보고서 파일, URL 또는 표준입력을 분석하고 JSON 리포트를 출력합니다.

입력 우선순위: --content > --stdin > path

Example:
  go run ./cmd/analyzer analyze data/reports/q3.txt
  go run ./cmd/analyzer analyze https://example.com/q3.html --summary
  cat q3.txt | go run ./cmd/analyzer analyze --stdin --out q3.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeContent string
	analyzeStdin   bool
	analyzeOut     string
	analyzeRunID   string
	analyzeSummary bool
	analyzeStrict  bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().StringVar(&analyzeContent, "content", "", "보고서 본문 (인라인)")
	analyzeCmd.Flags().BoolVar(&analyzeStdin, "stdin", false, "표준입력에서 본문 읽기")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "JSON 리포트 저장 경로 (기본: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeRunID, "run-id", "", "실행 ID (기본: UUID 생성)")
	analyzeCmd.Flags().BoolVar(&analyzeSummary, "summary", false, "JSON 대신 요약 출력")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "stage 에러가 있으면 non-zero 종료")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input, err := resolveInput(args, analyzeContent, cmd.Flags().Changed("content"), analyzeStdin, os.Stdin)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, appOptions{persistence: true, remote: true})
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.orchestrator.Run(ctx, brain.RunConfig{
		RunID: analyzeRunID,
		Input: input,
	})
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	if analyzeSummary {
		PrintReportSummary(report)
	} else {
		var w io.Writer = os.Stdout
		if analyzeOut != "" {
			f, err := os.Create(analyzeOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", analyzeOut, err)
			}
			defer f.Close()
			w = f
		}
		if err := writeReport(w, report); err != nil {
			return err
		}
	}

	if analyzeStrict && len(report.Errors) > 0 {
		return fmt.Errorf("analysis completed with %d error(s)", len(report.Errors))
	}
	return nil
}

// resolveInput builds the run input from flags, stdin and args
func resolveInput(args []string, content string, contentSet, useStdin bool, stdin io.Reader) (contracts.Input, error) {
	switch {
	case contentSet:
		return contracts.Input{contracts.InputReportContent: content}, nil
	case useStdin:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return contracts.Input{contracts.InputReportContent: string(data)}, nil
	case len(args) == 1:
		return contracts.Input{contracts.InputReportPath: args[0]}, nil
	default:
		return nil, errors.New("report path, --content or --stdin is required")
	}
}

// writeReport encodes the report as indented JSON
func writeReport(w io.Writer, report *contracts.AnalysisReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
