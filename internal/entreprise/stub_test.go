package entreprise_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/odyssey-erp/entreprise-registry/internal/entreprise"
	"github.com/odyssey-erp/entreprise-registry/internal/platform/httpx"
)

type stubStore struct {
	mu       sync.Mutex
	createFn func(ctx context.Context, name string) (entreprise.Entreprise, entreprise.Result, error)
	rows     []entreprise.Entreprise
	names    []string
	lists    int
	gets     int
}

func (s *stubStore) CreateEntreprise(ctx context.Context, name string) (entreprise.Entreprise, entreprise.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	if s.createFn != nil {
		return s.createFn(ctx, name)
	}
	e := entreprise.Entreprise{
		ID:        int64(len(s.rows) + 1),
		Name:      name,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	s.rows = append(s.rows, e)
	return e, entreprise.ResultCreated, nil
}

func (s *stubStore) ListEntreprises(ctx context.Context, limit, offset int) ([]entreprise.Entreprise, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	out := []entreprise.Entreprise{}
	for i := len(s.rows) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.rows[i])
	}
	return out, len(s.rows), nil
}

func (s *stubStore) GetEntreprise(ctx context.Context, id int64) (entreprise.Entreprise, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	for _, e := range s.rows {
		if e.ID == id {
			return e, nil
		}
	}
	return entreprise.Entreprise{}, fmt.Errorf("entreprise %d: %w", id, httpx.ErrNotFound)
}

func (s *stubStore) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entreprise.RegisteredEvent
	err    error
}

func (p *recordingPublisher) PublishRegistered(ctx context.Context, evt entreprise.RegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) published() []entreprise.RegisteredEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entreprise.RegisteredEvent(nil), p.events...)
}

func failingCreate(result entreprise.Result, err error) func(context.Context, string) (entreprise.Entreprise, entreprise.Result, error) {
	return func(context.Context, string) (entreprise.Entreprise, entreprise.Result, error) {
		return entreprise.Entreprise{}, result, err
	}
}
