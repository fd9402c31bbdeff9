package repository

import (
	"container/list"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// MemoryReportRepository keeps the most recent reports in memory. When full,
// the oldest saved report is evicted.
type MemoryReportRepository struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is newest; values are report IDs
	byID     map[string]*ReportRecord
	now      func() time.Time
}

// NewMemoryReportRepository creates a store holding at most capacity reports
func NewMemoryReportRepository(capacity int) *MemoryReportRepository {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryReportRepository{
		capacity: capacity,
		order:    list.New(),
		byID:     make(map[string]*ReportRecord, capacity),
		now:      time.Now,
	}
}

// Save assigns an ID and CreatedAt to record and stores it
func (m *MemoryReportRepository) Save(ctx context.Context, record *ReportRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("save report: %w", ErrInvalidReport)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := newReportID()
	if err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record.ID = id
	if record.CreatedAt.IsZero() {
		record.CreatedAt = m.now()
	}

	for m.order.Len() >= m.capacity {
		oldest := m.order.Back()
		oldID := oldest.Value.(string)
		m.order.Remove(oldest)
		delete(m.byID, oldID)
	}

	m.order.PushFront(id)
	m.byID[id] = record
	return id, nil
}

// Get returns the stored record or ErrReportNotFound
func (m *MemoryReportRepository) Get(ctx context.Context, id string) (*ReportRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("report %q: %w", id, ErrReportNotFound)
	}
	return record, nil
}

func (m *MemoryReportRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

func newReportID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate report id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
