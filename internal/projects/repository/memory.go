package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jesseg-dev/portfolio-site/internal/projects/domain"
)

// MemoryProjectRepository keeps projects in process memory. It backs
// PROJECT_STORE=memory and the service tests.
type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*domain.Project
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{projects: make(map[string]*domain.Project)}
}

func (r *MemoryProjectRepository) Create(_ context.Context, p *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *MemoryProjectRepository) List(_ context.Context) ([]*domain.Project, error) {
	out := r.snapshot()
	domain.SortAdmin(out)
	return out, nil
}

func (r *MemoryProjectRepository) ListPublished(_ context.Context) ([]*domain.Project, error) {
	return domain.PublicListing(r.snapshot()), nil
}

func (r *MemoryProjectRepository) Get(_ context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryProjectRepository) Replace(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.projects[p.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := *p
	next.CreatedAt = cur.CreatedAt
	r.projects[p.ID] = &next

	out := next
	return &out, nil
}

func (r *MemoryProjectRepository) Patch(_ context.Context, id string, patch domain.ProjectPatch, updatedAt time.Time) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := *cur
	patch.Apply(&next)
	next.UpdatedAt = updatedAt
	r.projects[id] = &next

	out := next
	return &out, nil
}

func (r *MemoryProjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *MemoryProjectRepository) ExistsByTitle(_ context.Context, title string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	title = strings.TrimSpace(title)
	for _, p := range r.projects {
		if strings.EqualFold(p.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryProjectRepository) snapshot() []*domain.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		cp := *p
		out = append(out, &cp)
	}
	return out
}
