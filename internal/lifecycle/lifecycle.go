// Package lifecycle coordinates the host's startup and shutdown.
//
// Participants declare a phase ordinal. Start runs them in ascending phase
// order; Stop runs in descending order, so the last thing started is the
// first thing stopped. All transitions are serialized: the host container
// drives the lifecycle from a single goroutine and this package keeps that
// contract even if it is misused.
package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/funcgrid/internal/ctxlog"
)

// Phase ordinals for the host's built-in participants. The deployer sits
// just below the gateway: functions are deployed before the listener comes
// up, and on shutdown traffic stops before they are undeployed.
const (
	PhaseDeployer = 1<<30 - 1000
	PhaseGateway  = 1 << 30
)

// Participant is a two-state start/stop unit managed by the coordinator.
type Participant interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Running reports the participant's current state. False before Start
	// and after Stop.
	Running() bool

	// Phase controls relative ordering; lower phases start earlier and
	// stop later.
	Phase() int
}

// Manager starts and stops a fixed set of participants.
type Manager struct {
	mu           sync.Mutex
	participants []Participant
}

// NewManager builds a coordinator over the given participants. Registration
// order between equal phases is preserved.
func NewManager(participants ...Participant) *Manager {
	m := &Manager{participants: make([]Participant, len(participants))}
	copy(m.participants, participants)
	sort.SliceStable(m.participants, func(i, j int) bool {
		return m.participants[i].Phase() < m.participants[j].Phase()
	})
	return m
}

// Start starts every participant in ascending phase order. When one fails,
// the participants already started are stopped again in reverse before the
// error is returned, so a failed startup leaves nothing running.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	logger := ctxlog.FromContext(ctx)

	for i, p := range m.participants {
		logger.Debug("Starting lifecycle participant.", "phase", p.Phase())
		if err := p.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				if stopErr := m.participants[j].Stop(ctx); stopErr != nil {
					logger.Error("Failed to stop participant during startup rollback.", "phase", m.participants[j].Phase(), "error", stopErr)
				}
			}
			return fmt.Errorf("lifecycle start failed at phase %d: %w", p.Phase(), err)
		}
	}
	return nil
}

// Stop stops every running participant in descending phase order. All stops
// are attempted; the first error is returned.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	logger := ctxlog.FromContext(ctx)

	var firstErr error
	for i := len(m.participants) - 1; i >= 0; i-- {
		p := m.participants[i]
		if !p.Running() {
			continue
		}
		logger.Debug("Stopping lifecycle participant.", "phase", p.Phase())
		if err := p.Stop(ctx); err != nil {
			logger.Error("Participant failed to stop.", "phase", p.Phase(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
