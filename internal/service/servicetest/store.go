// Package servicetest provides an in-memory backing store for exercising the
// ticket service without a database.
package servicetest

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parking-service/internal/model"
	"parking-service/internal/repository"
)

type Store struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]model.Ticket
	brands  map[uuid.UUID]model.Brand
	clients map[string]model.Client

	// Writes counts successful create, update and delete calls.
	Writes int
	// BeforeUpdate, when set, runs right before Update compares versions.
	BeforeUpdate func(s *Store, id uuid.UUID)
}

func NewStore(brands ...model.Brand) *Store {
	s := &Store{
		tickets: make(map[uuid.UUID]model.Ticket),
		brands:  make(map[uuid.UUID]model.Brand),
		clients: make(map[string]model.Client),
	}
	for _, b := range brands {
		s.brands[b.ID] = b
	}
	return s
}

func (s *Store) Tickets() TicketStore { return TicketStore{s} }
func (s *Store) Brands() BrandStore   { return BrandStore{s} }
func (s *Store) Clients() ClientStore { return ClientStore{s} }

// Put stores t as-is, bypassing the write counter.
func (s *Store) Put(t model.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Brand = nil
	s.tickets[t.ID] = t
}

// Remove drops a ticket, bypassing the write counter.
func (s *Store) Remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tickets, id)
}

// Ticket returns the stored ticket without the brand attached.
func (s *Store) Ticket(id uuid.UUID) (model.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	return t, ok
}

func (s *Store) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Store) withBrand(t model.Ticket) model.Ticket {
	if b, ok := s.brands[t.BrandID]; ok {
		brand := b
		t.Brand = &brand
	}
	return t
}

type TicketStore struct{ s *Store }

func (ts TicketStore) List(ctx context.Context) ([]model.Ticket, error) {
	s := ts.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, s.withBrand(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (ts TicketStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	s := ts.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	t = s.withBrand(t)
	return &t, nil
}

func (ts TicketStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s := ts.s
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tickets[id]
	return ok, nil
}

func (ts TicketStore) CreateWithClient(ctx context.Context, ticket *model.Ticket, client *model.Client) error {
	s := ts.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	s.tickets[ticket.ID] = *ticket
	if existing, ok := s.clients[client.DocumentNumber]; ok {
		client.ID = existing.ID
	} else if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	s.clients[client.DocumentNumber] = *client
	s.Writes++
	return nil
}

func (ts TicketStore) Update(ctx context.Context, ticket *model.Ticket) error {
	s := ts.s
	if s.BeforeUpdate != nil {
		s.BeforeUpdate(s, ticket.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.tickets[ticket.ID]
	if !ok || stored.Version != ticket.Version {
		return repository.ErrStaleRecord
	}
	updated := *ticket
	updated.Brand = nil
	updated.Version = stored.Version + 1
	if updated.Date.IsZero() {
		updated.Date = stored.Date
	}
	s.tickets[ticket.ID] = updated
	ticket.Version = updated.Version
	s.Writes++
	return nil
}

func (ts TicketStore) Delete(ctx context.Context, id uuid.UUID) error {
	s := ts.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.tickets, id)
	s.Writes++
	return nil
}

type BrandStore struct{ s *Store }

func (bs BrandStore) List(ctx context.Context) ([]model.Brand, error) {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Brand, 0, len(s.brands))
	for _, b := range s.brands {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (bs BrandStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	s := bs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.brands[id]
	return ok, nil
}

type ClientStore struct{ s *Store }

func (cs ClientStore) List(ctx context.Context) ([]model.Client, error) {
	s := cs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (cs ClientStore) GetByDocumentNumber(ctx context.Context, documentNumber string) (*model.Client, error) {
	s := cs.s
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[documentNumber]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}
