package testutil

import (
	"context"
	"sync"

	"winsbygroup.com/logitrack/internal/registration"
)

// MemoryStore is an in-memory registration.Store. Rows[0] is the header.
type MemoryStore struct {
	mu   sync.Mutex
	Rows [][]string

	// Err, when set, is returned by every call.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Rows: [][]string{append([]string(nil), registration.Header...)},
	}
}

func (m *MemoryStore) Name() string { return "memoria" }

func (m *MemoryStore) AppendRow(_ context.Context, row []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return 0, m.Err
	}
	m.Rows = append(m.Rows, append([]string(nil), row...))
	return len(m.Rows), nil
}

func (m *MemoryStore) Records(_ context.Context) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	records := []map[string]any{}
	if len(m.Rows) < 2 {
		return records, nil
	}
	header := m.Rows[0]
	for _, row := range m.Rows[1:] {
		rec := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// DataRows returns a copy of the stored rows without the header.
func (m *MemoryStore) DataRows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]string, 0, len(m.Rows))
	for _, row := range m.Rows[1:] {
		out = append(out, append([]string(nil), row...))
	}
	return out
}
