package procurement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrQueueFull is returned when the background queue cannot accept more
// events; the caller decides whether to drop or retry later.
var ErrQueueFull = errors.New("procurement event queue is full")

// Manager routes events to registered agents. Synchronous callers use
// Process; background work goes through a buffered channel drained by a
// fixed pool of workers.
type Manager struct {
	mu      sync.RWMutex
	agents  map[EventType]Agent
	queue   chan Event
	workers int
	wg      sync.WaitGroup
	logger  *zap.Logger
}

func NewManager(logger *zap.Logger, workers, queueSize int) *Manager {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Manager{
		agents:  make(map[EventType]Agent),
		queue:   make(chan Event, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Register claims the agent's event types. The last registration for a
// type wins.
func (m *Manager) Register(a Agent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range a.Handles() {
		m.agents[t] = a
	}
}

// Process routes one event to its agent and returns the result.
func (m *Manager) Process(ctx context.Context, ev Event) (any, error) {
	m.mu.RLock()
	agent, ok := m.agents[ev.Type]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no agent registered for event type %q", ev.Type)
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	return agent.Handle(ctx, ev)
}

// Enqueue hands an event to the worker pool without blocking.
func (m *Manager) Enqueue(ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.EnqueuedAt = time.Now().UTC()
	select {
	case m.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled or
// Stop closes the queue.
func (m *Manager) Start(ctx context.Context) {
	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(ctx, i)
	}
}

// Stop closes the queue and waits for in-flight events to finish.
func (m *Manager) Stop() {
	close(m.queue)
	m.wg.Wait()
}

func (m *Manager) worker(ctx context.Context, id int) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-m.queue:
			if !open {
				return
			}
			if _, err := m.Process(ctx, ev); err != nil {
				m.logger.Error("agent event failed",
					zap.Int("worker", id),
					zap.String("eventId", ev.ID),
					zap.String("type", string(ev.Type)),
					zap.Error(err))
				continue
			}
			m.logger.Debug("agent event processed",
				zap.Int("worker", id),
				zap.String("eventId", ev.ID),
				zap.String("type", string(ev.Type)))
		}
	}
}
