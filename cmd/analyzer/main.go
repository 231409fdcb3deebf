package main

import (
	"os"

	"github.com/wonny/earnings-analyzer/backend/cmd/analyzer/commands"
)

// main is the entry point for the analyzer CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/analyzer [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
