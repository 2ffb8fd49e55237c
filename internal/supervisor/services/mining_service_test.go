// Cinerules - Association Rule Mining and Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerules

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/cinerules/internal/recommend"
)

// mockMiningEngine is a mock implementation for testing.
type mockMiningEngine struct {
	mu       sync.Mutex
	runCalls int
	runErr   error
	nextRuns []time.Time
}

func (m *mockMiningEngine) Run(_ context.Context) (*recommend.Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runCalls++
	if m.runErr != nil {
		return nil, m.runErr
	}
	return &recommend.Model{Version: m.runCalls}, nil
}

func (m *mockMiningEngine) SetNextScheduledRun(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRuns = append(m.nextRuns, t)
}

func (m *mockMiningEngine) getRunCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runCalls
}

func (m *mockMiningEngine) lastNextRun() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.nextRuns) == 0 {
		return time.Time{}, false
	}
	return m.nextRuns[len(m.nextRuns)-1], true
}

func TestMiningService_Interface(t *testing.T) {
	var _ suture.Service = (*MiningService)(nil)
	var _ MiningEngine = (*recommend.Engine)(nil)
}

func TestMiningService_String(t *testing.T) {
	service := NewMiningService(&mockMiningEngine{}, MiningServiceConfig{}, zerolog.Nop())
	if got := service.String(); got != "mining-service" {
		t.Errorf("String() = %q, want %q", got, "mining-service")
	}
}

func TestMiningService_Startup(t *testing.T) {
	tests := []struct {
		name          string
		mineOnStartup bool
		wantRuns      int
	}{
		{"mine on startup", true, 1},
		{"wait for schedule", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockMiningEngine{}
			service := NewMiningService(engine, MiningServiceConfig{
				MineOnStartup:   tt.mineOnStartup,
				RefreshInterval: time.Hour,
			}, zerolog.Nop())

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			if err := service.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
			}
			if got := engine.getRunCalls(); got != tt.wantRuns {
				t.Errorf("Run() called %d times, want %d", got, tt.wantRuns)
			}
		})
	}
}

func TestMiningService_ScheduledRuns(t *testing.T) {
	engine := &mockMiningEngine{}
	service := NewMiningService(engine, MiningServiceConfig{
		RefreshInterval: 20 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_ = service.Serve(ctx)

	if got := engine.getRunCalls(); got < 2 {
		t.Errorf("Run() called %d times, want at least 2", got)
	}
	next, ok := engine.lastNextRun()
	if !ok || next.IsZero() {
		t.Error("next scheduled run was not published")
	}
}

func TestMiningService_NoSchedule(t *testing.T) {
	engine := &mockMiningEngine{}
	service := NewMiningService(engine, MiningServiceConfig{MineOnStartup: true}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = service.Serve(ctx)

	if got := engine.getRunCalls(); got != 1 {
		t.Errorf("Run() called %d times, want 1", got)
	}
	next, ok := engine.lastNextRun()
	if !ok || !next.IsZero() {
		t.Errorf("next scheduled run = %v, want zero time", next)
	}
}

func TestMiningService_FailedRunKeepsServing(t *testing.T) {
	engine := &mockMiningEngine{runErr: errors.New("ratings file missing")}
	service := NewMiningService(engine, MiningServiceConfig{
		MineOnStartup:   true,
		RefreshInterval: 20 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := service.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
	if got := engine.getRunCalls(); got < 2 {
		t.Errorf("Run() called %d times, want retries after failure", got)
	}
}
