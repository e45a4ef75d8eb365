package tickets

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memStore is an in-memory Store with the same atomicity guarantees the
// production store gets from conditional UPDATEs.
type memStore struct {
	mu      sync.Mutex
	types   map[uint]*memType
	records map[string]*Record

	findErr error
}

type memType struct {
	info     TypeInfo
	quantity uint
	issued   uint
}

func newMemStore() *memStore {
	return &memStore{
		types:   make(map[uint]*memType),
		records: make(map[string]*Record),
	}
}

func (m *memStore) addType(info TypeInfo, quantity uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[info.TicketTypeID] = &memType{info: info, quantity: quantity}
}

func (m *memStore) ClaimType(ctx context.Context, eventID, ticketTypeID uint) (*TypeInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tt, ok := m.types[ticketTypeID]
	if !ok || tt.info.EventID != eventID {
		return nil, ErrUnknownTicketType
	}
	if tt.issued >= tt.quantity {
		return nil, ErrCapacityExceeded
	}
	tt.issued++
	info := tt.info
	return &info, nil
}

func (m *memStore) ReleaseType(ctx context.Context, eventID, ticketTypeID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tt, ok := m.types[ticketTypeID]; ok && tt.issued > 0 {
		tt.issued--
	}
	return nil
}

func (m *memStore) CreateTicket(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[rec.TicketID]; exists {
		return fmt.Errorf("duplicate ticket id %s: %w", rec.TicketID, ErrStorageUnavailable)
	}
	clone := *rec
	m.records[rec.TicketID] = &clone
	return nil
}

func (m *memStore) FindTicket(ctx context.Context, ticketID string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	rec, ok := m.records[ticketID]
	if !ok {
		return nil, ErrUnknownTicket
	}
	clone := *rec
	return &clone, nil
}

func (m *memStore) RedeemTicket(ctx context.Context, ticketID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[ticketID]
	if !ok || rec.Status != StatusUnused {
		return false, nil
	}
	rec.Status = StatusRedeemed
	rec.RedeemedAt = &at
	return true, nil
}

func (m *memStore) VoidTicket(ctx context.Context, ticketID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[ticketID]
	if !ok || rec.Status != StatusUnused {
		return false, nil
	}
	rec.Status = StatusVoid
	return true, nil
}
