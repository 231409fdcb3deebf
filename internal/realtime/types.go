package realtime

import (
	"time"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
)

// Publisher receives pipeline lifecycle events
type Publisher interface {
	Publish(event contracts.StageEvent)
}

// RunPhase is the coarse state of one run
type RunPhase string

const (
	PhaseRunning  RunPhase = "running"
	PhaseFinished RunPhase = "finished"
)

// RunState is the latest known progress of a run
// ⭐ SSOT: 실행 중인 분석 진행 상태 구조
type RunState struct {
	RunID     string                                        `json:"run_id"`
	Phase     RunPhase                                      `json:"phase"`
	Stages    map[contracts.StageName]contracts.StageStatus `json:"stages"`
	Errors    []string                                      `json:"errors"`
	StartedAt time.Time                                     `json:"started_at"`
	UpdatedAt time.Time                                     `json:"updated_at"`
	IsStale   bool                                          `json:"is_stale"` // TTL 경과 여부
}

// NewRunState creates the state for a freshly started run
func NewRunState(runID string, at time.Time) *RunState {
	stages := make(map[contracts.StageName]contracts.StageStatus, len(contracts.AllStages()))
	for _, name := range contracts.AllStages() {
		stages[name] = contracts.StatusReady
	}
	return &RunState{
		RunID:     runID,
		Phase:     PhaseRunning,
		Stages:    stages,
		Errors:    []string{},
		StartedAt: at,
		UpdatedAt: at,
	}
}

// Apply folds event into the state
func (s *RunState) Apply(event contracts.StageEvent) {
	switch event.Type {
	case contracts.EventStageStarted, contracts.EventStageFinished:
		s.Stages[event.Stage] = event.Status
	case contracts.EventRunFinished:
		s.Phase = PhaseFinished
		if event.Errors != nil {
			s.Errors = append([]string(nil), event.Errors...)
		}
	}
	s.UpdatedAt = event.Timestamp
}

// Clone returns a deep copy
func (s *RunState) Clone() *RunState {
	out := *s
	out.Stages = make(map[contracts.StageName]contracts.StageStatus, len(s.Stages))
	for k, v := range s.Stages {
		out.Stages[k] = v
	}
	out.Errors = append([]string{}, s.Errors...)
	return &out
}

type fanout []Publisher

func (f fanout) Publish(event contracts.StageEvent) {
	for _, p := range f {
		p.Publish(event)
	}
}

// Fanout delivers every event to each non-nil publisher in order
func Fanout(pubs ...Publisher) Publisher {
	out := make(fanout, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
