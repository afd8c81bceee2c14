package orders

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is the ledger for tests and storage-free runs.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	seq    int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Append(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	o.Seq = m.seq
	m.orders = append(m.orders, cloneOrder(*o))
	return nil
}

func (m *MemoryRepository) List(_ context.Context, sessionID string) ([]Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Order, 0, len(m.orders))
	for _, o := range m.orders {
		if o.SessionID == sessionID {
			out = append(out, cloneOrder(o))
		}
	}
	// newest first; stable keeps insertion order for equal timestamps
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (m *MemoryRepository) Get(_ context.Context, orderID string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.OrderID == orderID {
			c := cloneOrder(o)
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) Delete(_ context.Context, orderID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, o := range m.orders {
		if o.OrderID == orderID {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func cloneOrder(o Order) Order {
	c := o
	c.Items = append(c.Items[:0:0], o.Items...)
	return c
}
