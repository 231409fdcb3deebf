package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/earnings-analyzer/backend/internal/compare"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <actual.json> <expected.json>",
	Short: "두 분석 리포트 비교",
	Long: `두 JSON 리포트를 비교합니다. 실행마다 달라지는 키
(timestamp, analysis_id, processing_time)는 무시합니다.

차이가 있으면 non-zero 로 종료합니다.

Example:
  go run ./cmd/analyzer compare out.json testdata/expected.json`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

// errOutputsDiffer signals a completed comparison with differences
var errOutputsDiffer = errors.New("outputs differ")

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	result, err := compare.CompareFiles(args[0], args[1])
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	compare.Render(os.Stdout, result)

	if !result.Equal() {
		return errOutputsDiffer
	}
	return nil
}
