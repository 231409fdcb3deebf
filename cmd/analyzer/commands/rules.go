package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/earnings-analyzer/backend/internal/rulesconfig"
)

var (
	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "키워드/임계값 규칙 관리",
	}

	rulesCheckCmd = &cobra.Command{
		Use:   "check [file]",
		Short: "규칙 YAML 검증",
		Long: `규칙 파일을 검증하고 경고와 해시를 출력합니다.
파일을 생략하면 RULES_FILE, 그것도 없으면 내장 기본값을 검사합니다.

Example:
  go run ./cmd/analyzer rules check config/rules/earnings_rules.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: checkRules,
	}
)

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
}

func checkRules(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if cfg, err := loadConfig(); err == nil {
		path = cfg.Analyzer.RulesFile
	}

	// LoadOrDefault 는 Parse 내부에서 Validate 까지 수행
	rules, err := rulesconfig.LoadOrDefault(path)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	hash, err := rulesconfig.Hash(rules)
	if err != nil {
		return fmt.Errorf("hash rules: %w", err)
	}

	PrintDoubleSeparator()
	fmt.Printf("  Rules %s (v%s)\n", rules.Meta.RulesID, rules.Meta.Version)
	PrintSeparator()
	PrintKeyValue("File", orDash(path), 18)
	PrintKeyValue("Positive words", fmt.Sprintf("%d", len(rules.Sentiment.PositiveKeywords)), 18)
	PrintKeyValue("Negative words", fmt.Sprintf("%d", len(rules.Sentiment.NegativeKeywords)), 18)
	PrintKeyValue("Buy / Sell score", fmt.Sprintf("%d / %d", rules.Recommendation.BuyScore, rules.Recommendation.SellScore), 18)
	PrintKeyValue("Hash", hash, 18)
	PrintDoubleSeparator()

	warnings := rulesconfig.Warn(rules)
	for _, w := range warnings {
		PrintWarning(fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	PrintSuccess(fmt.Sprintf("Rules valid (%d warning(s))", len(warnings)))
	return nil
}
