package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/earnings-analyzer/backend/internal/scheduler"
	"github.com/wonny/earnings-analyzer/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행 (완료까지 대기)

Example:
  go run ./cmd/analyzer scheduler start
  go run ./cmd/analyzer scheduler list
  go run ./cmd/analyzer scheduler run report_batch`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- report_batch: BATCH_SCHEDULE (기본 15분마다, REPORTS_DIR 의 신규/변경 보고서 분석)
- run_cache_cleanup: 5분마다 (실행 상태 캐시 정리)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Earnings Analyzer Scheduler ===")

	// Initialize dependencies
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	// Start scheduler
	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Printf("Reports directory: %s\n", a.cfg.Analyzer.ReportsDir)
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	printJobStats(sched.GetJobStats())
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	fmt.Printf("Running job: %s\n", jobName)

	a, sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer a.Close()

	if err := sched.RunJobSync(context.Background(), jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Job %s completed", jobName))
	return nil
}

func printJobStats(stats map[string]scheduler.JobStats) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nJob Statistics:")
	for _, name := range names {
		stat := stats[name]
		fmt.Printf("📊 %s\n", name)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)
		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
	}
}

func initScheduler() (*app, *scheduler.Scheduler, error) {
	// 1. Build runtime
	a, err := newApp(context.Background(), appOptions{persistence: true})
	if err != nil {
		return nil, nil, err
	}

	// 2. Create scheduler
	sched := scheduler.New(a.log)

	// 3. Register jobs
	batch := jobs.NewReportBatchJob(a.orchestrator, a.cfg.Analyzer.ReportsDir, a.cfg.Analyzer.BatchSchedule, a.log)
	if err := sched.AddJob(batch); err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("add job %s: %w", batch.Name(), err)
	}

	cleanup := jobs.NewRunCacheCleanupJob(a.runCache, a.log)
	if err := sched.AddJob(cleanup); err != nil {
		a.Close()
		return nil, nil, fmt.Errorf("add job %s: %w", cleanup.Name(), err)
	}

	return a, sched, nil
}
