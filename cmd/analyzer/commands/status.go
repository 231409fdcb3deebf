package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "런타임 구성 및 연결 상태 점검",
	Long: `설정, DB/Redis 연결, 규칙 파일, 파이프라인 stage 를 점검합니다.

Example:
  go run ./cmd/analyzer status
  go run ./cmd/analyzer status --env production`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Earnings Analyzer Status ===")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := newApp(ctx, appOptions{persistence: true, redis: true})
	if err != nil {
		PrintError(err.Error())
		return err
	}
	defer a.Close()

	cfg := a.cfg
	PrintDoubleSeparator()
	PrintKeyValue("Env", cfg.Env, 14)
	PrintKeyValue("Log", fmt.Sprintf("%s/%s", cfg.LogLevel, cfg.LogFormat), 14)
	PrintKeyValue("Reports dir", cfg.Analyzer.ReportsDir, 14)
	PrintKeyValue("Batch", cfg.Analyzer.BatchSchedule, 14)
	PrintKeyValue("Rules", fmt.Sprintf("%s (v%s)", a.rules.Meta.RulesID, a.rules.Meta.Version), 14)

	// Sentiment strategy
	if cfg.Anthropic.Enabled() {
		PrintKeyValue("Sentiment", "external ("+cfg.Anthropic.Model+") + heuristic fallback", 14)
	} else {
		PrintKeyValue("Sentiment", "heuristic", 14)
	}

	// Database
	PrintSeparator()
	if a.db == nil {
		PrintKeyValue("Database", "disabled", 14)
	} else {
		health, err := a.db.HealthCheck(ctx)
		if err != nil {
			PrintKeyValue("Database", "unhealthy: "+err.Error(), 14)
		} else {
			PrintKeyValue("Database", fmt.Sprintf("ok (%s, %d/%d conns)",
				health.ResponseTime.Round(time.Millisecond), health.Stats.TotalConns, health.Stats.MaxConns), 14)
		}
	}

	// Redis (newApp 에서 이미 ping 완료)
	if a.redis.Enabled() {
		PrintKeyValue("Redis", fmt.Sprintf("ok (%s:%s)", cfg.Redis.Host, cfg.Redis.Port), 14)
	} else {
		PrintKeyValue("Redis", "disabled", 14)
	}

	// Stages
	PrintSeparator()
	for _, info := range a.orchestrator.Registry().Statuses() {
		PrintKeyValue(info.Name.ShortName(), fmt.Sprintf("%s (%s)", info.Name, info.Name.Description()), 14)
	}
	PrintDoubleSeparator()

	PrintSuccess("Runtime ready")
	return nil
}
