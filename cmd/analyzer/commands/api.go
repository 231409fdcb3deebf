package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/earnings-analyzer/backend/internal/api"
	"github.com/wonny/earnings-analyzer/backend/internal/api/handlers"
	"github.com/wonny/earnings-analyzer/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 보고서 분석 엔드포인트 제공
- 실행 진행 상태 websocket 스트림 제공

Endpoints:
  GET  /health               - Health check
  GET  /api/stages           - Stage 목록/상태
  GET  /api/runs/{id}        - 실행 진행 상태
  POST /api/analyze          - 보고서 분석
  GET  /api/analyses         - 분석 이력 (DB_ENABLED)
  GET  /api/analyses/stats   - 분석 통계 (DB_ENABLED)
  GET  /api/analyses/{id}    - 분석 결과 조회 (DB_ENABLED)
  GET  /ws/runs              - Stage 이벤트 스트림

Example:
  go run ./cmd/analyzer api
  go run ./cmd/analyzer api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Earnings Analyzer API Server ===")

	// 1. Build runtime (config, logger, stores, pipeline)
	a, err := newApp(context.Background(), appOptions{
		persistence: true,
		redis:       true,
		events:      true,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log
	log.WithFields(map[string]interface{}{
		"port":        a.cfg.Port,
		"env":         a.cfg.Env,
		"persistence": a.store != nil,
		"redis":       a.redis.Enabled(),
	}).Info("Initializing API server")

	// 2. Optional cache / rate limiter
	var reportCache handlers.ReportCache
	var limiter handlers.Limiter
	if a.redis.Enabled() {
		reportCache = redis.NewCache(a.redis, "analysis")
		limiter = redis.NewRateLimiter(a.redis, "ratelimit")
	}

	// 3. Optional history store
	var history handlers.ReportStore
	if a.store != nil {
		history = a.store
	}

	// 4. Create handlers
	h := api.Handlers{
		Analysis: handlers.NewAnalysisHandler(a.orchestrator, reportCache, limiter, a.cfg.Analyzer.CacheTTL, log),
		History:  handlers.NewHistoryHandler(history, log),
		Stages:   handlers.NewStageHandler(a.orchestrator.Registry(), a.runCache),
		Events:   a.hub,
	}

	// 5. Create router
	router := api.NewRouter(h, log)

	// 6. Create server
	server := api.New(a.cfg, log, router)
	server.OnShutdown(a.hub.Close)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
