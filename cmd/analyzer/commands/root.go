package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "실적 보고서 분석 파이프라인",
	Long: `Earnings Analyzer Unified CLI

실적 보고서를 4단계 파이프라인으로 분석합니다.
S0 Coordinator → S1 Extractor → S2 Sentiment → S3 Summary

Usage:
  go run ./cmd/analyzer [command]

Examples:
  go run ./cmd/analyzer analyze data/reports/q3.txt
  go run ./cmd/analyzer api
  go run ./cmd/analyzer scheduler start
  go run ./cmd/analyzer compare out.json expected.json
  go run ./cmd/analyzer rules check config/rules/earnings_rules.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
