package stage

import (
	"fmt"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// Registry holds one runner per stage in pipeline order.
// 프로세스(또는 테스트)마다 한 번 생성해서 명시적으로 전달, 전역 상태 없음
type Registry struct {
	runners []*Runner
	byName  map[contracts.StageName]*Runner
}

// NewRegistry wraps the given stages, which must cover contracts.AllStages() in order
func NewRegistry(log *logger.Logger, stages ...Stage) (*Registry, error) {
	expected := contracts.AllStages()
	if len(stages) != len(expected) {
		return nil, fmt.Errorf("expected %d stages, got %d", len(expected), len(stages))
	}

	reg := &Registry{byName: make(map[contracts.StageName]*Runner, len(stages))}
	for i, s := range stages {
		if s.Name() != expected[i] {
			return nil, fmt.Errorf("stage %d: expected %s, got %s", i, expected[i], s.Name())
		}
		runner := NewRunner(s, log)
		reg.runners = append(reg.runners, runner)
		reg.byName[s.Name()] = runner
	}

	return reg, nil
}

// Runners returns the runners in pipeline order
func (r *Registry) Runners() []*Runner {
	out := make([]*Runner, len(r.runners))
	copy(out, r.runners)
	return out
}

// Get returns the runner for name
func (r *Registry) Get(name contracts.StageName) (*Runner, bool) {
	runner, ok := r.byName[name]
	return runner, ok
}

// StageInfo describes a runner for status listings
type StageInfo struct {
	Name        contracts.StageName   `json:"name"`
	ShortName   string                `json:"short_name"`
	Description string                `json:"description"`
	Status      contracts.StageStatus `json:"status"`
}

// Statuses lists every runner with its current status
func (r *Registry) Statuses() []StageInfo {
	out := make([]StageInfo, 0, len(r.runners))
	for _, runner := range r.runners {
		name := runner.Name()
		out = append(out, StageInfo{
			Name:        name,
			ShortName:   name.ShortName(),
			Description: name.Description(),
			Status:      runner.Status(),
		})
	}
	return out
}

// Reset returns every runner to ready
func (r *Registry) Reset() {
	for _, runner := range r.runners {
		runner.Reset()
	}
}
