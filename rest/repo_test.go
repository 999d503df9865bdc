package rest

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/ggpera/expense-tracker/model"
)

// memoryRepo is an in-memory ExpenseRepo. Setting err makes every call
// fail; deleteAffected and pingErr override single operations.
type memoryRepo struct {
	mu     sync.Mutex
	rows   map[int64]model.Expense
	nextID int64
	calls  map[string]int

	err            error
	pingErr        error
	deleteAffected *int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		rows:   map[int64]model.Expense{},
		nextID: 1,
		calls:  map[string]int{},
	}
}

func (m *memoryRepo) record(op string) error {
	m.calls[op]++
	return m.err
}

func (m *memoryRepo) sorted(keep func(model.Expense) bool) []model.Expense {
	expenses := []model.Expense{}
	for _, e := range m.rows {
		if keep(e) {
			expenses = append(expenses, e)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID < expenses[j].ID })
	return expenses
}

func (m *memoryRepo) FindAll(ctx context.Context) ([]model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FindAll"); err != nil {
		return nil, &model.StorageError{Op: "find all", Err: err}
	}
	return m.sorted(func(model.Expense) bool { return true }), nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id int64) ([]model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FindByID"); err != nil {
		return nil, &model.StorageError{Op: "find by id", Err: err}
	}
	return m.sorted(func(e model.Expense) bool { return e.ID == id }), nil
}

func (m *memoryRepo) FindByMonth(ctx context.Context, month int) ([]model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FindByMonth"); err != nil {
		return nil, &model.StorageError{Op: "find by month", Err: err}
	}
	// dates are stored as YYYY-MM-DD...
	return m.sorted(func(e model.Expense) bool {
		if len(e.Date) < 7 {
			return false
		}
		got, err := strconv.Atoi(e.Date[5:7])
		return err == nil && got == month
	}), nil
}

func (m *memoryRepo) FindByCategory(ctx context.Context, name string) ([]model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("FindByCategory"); err != nil {
		return nil, &model.StorageError{Op: "find by category", Err: err}
	}
	return m.sorted(func(e model.Expense) bool { return e.Category == name }), nil
}

func (m *memoryRepo) Save(ctx context.Context, expense *model.Expense) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("Save"); err != nil {
		return 0, &model.StorageError{Op: "save", Err: err}
	}
	id := m.nextID
	m.nextID++
	row := *expense
	row.ID = id
	m.rows[id] = row
	return id, nil
}

func (m *memoryRepo) UpdateByID(ctx context.Context, expense *model.Expense) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateByID"); err != nil {
		return 0, &model.StorageError{Op: "update", Err: err}
	}
	if _, ok := m.rows[expense.ID]; !ok {
		return 0, nil
	}
	m.rows[expense.ID] = *expense
	return 1, nil
}

func (m *memoryRepo) DeleteByID(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteByID"); err != nil {
		return 0, &model.StorageError{Op: "delete", Err: err}
	}
	if m.deleteAffected != nil {
		return *m.deleteAffected, nil
	}
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

func (m *memoryRepo) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Ping"]++
	return m.pingErr
}

func (m *memoryRepo) put(e model.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[e.ID] = e
	if e.ID >= m.nextID {
		m.nextID = e.ID + 1
	}
}

func (m *memoryRepo) count(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}
