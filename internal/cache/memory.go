package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type entry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process Cache with lazy and periodic expiry.
type Memory struct {
	mu     sync.Mutex
	items  map[string]entry
	ttl    time.Duration
	now    func() time.Time
	stop   chan struct{}
	closed bool
}

func NewMemory(opts Options) *Memory {
	m := &Memory{
		items: make(map[string]entry),
		ttl:   opts.DefaultTTL,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if m.ttl <= 0 {
		m.ttl = DefaultOptions().DefaultTTL
	}
	if opts.CleanupInterval > 0 {
		go m.janitor(opts.CleanupInterval)
	}
	return m
}

func (m *Memory) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-t.C:
			m.mu.Lock()
			now := m.now()
			for k, e := range m.items {
				if now.After(e.expires) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return ErrInvalidValue
	}
	if ttl <= 0 {
		ttl = m.ttl
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.items[key] = entry{data: b, expires: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Get(_ context.Context, key string, value any) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	e, ok := m.items[key]
	if ok && m.now().After(e.expires) {
		delete(m.items, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(e.data, value); err != nil {
		return ErrInvalidValue
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.items = make(map[string]entry)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}
