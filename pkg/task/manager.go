package task

import (
	"context"
	"sync"
)

// BackgroundTask represents a long-running background process (sweeper, cron).
type BackgroundTask interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}

// Manager starts registered tasks together and stops them in reverse order.
type Manager struct {
	tasks  []BackgroundTask
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{tasks: make([]BackgroundTask, 0)}
}

// Register adds a background task; should be called during assembly before StartAll.
func (m *Manager) Register(task BackgroundTask) {
	if task == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

// Names lists registered tasks in registration order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.tasks))
	for _, t := range m.tasks {
		names = append(names, t.Name())
	}
	return names
}

// StartAll starts all registered tasks once. A task that fails to start
// stops the ones already started.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	for i, t := range m.tasks {
		if err := t.Start(runCtx); err != nil {
			cancel()
			for j := i - 1; j >= 0; j-- {
				_ = m.tasks[j].Stop()
			}
			return err
		}
	}
	m.cancel = cancel
	return nil
}

// StopAll stops all running tasks.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel == nil {
		return
	}
	m.cancel()
	for i := len(m.tasks) - 1; i >= 0; i-- {
		_ = m.tasks[i].Stop()
	}
	m.cancel = nil
}
