package mocks

import (
	"context"
	"sync"

	"companyapi/internal/model"
)

// MemoryCompanyRepository is an in-memory CompanyRepository for tests that
// drive several operations against the same rows.
type MemoryCompanyRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]model.Company
}

func NewMemoryCompanyRepository() *MemoryCompanyRepository {
	return &MemoryCompanyRepository{rows: map[int64]model.Company{}}
}

func (r *MemoryCompanyRepository) FindByID(_ context.Context, id int64) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryCompanyRepository) FindAll(_ context.Context) ([]model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]model.Company, 0, len(r.rows))
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.rows[id]; ok {
			items = append(items, c)
		}
	}
	return items, nil
}

func (r *MemoryCompanyRepository) Save(_ context.Context, c *model.Company) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		r.nextID++
		c.ID = r.nextID
	}
	r.rows[c.ID] = *c
	out := *c
	return &out, nil
}
