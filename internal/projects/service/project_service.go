package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	authdomain "github.com/jesseg-dev/portfolio-site/internal/auth/domain"
	"github.com/jesseg-dev/portfolio-site/internal/projects/domain"
	"github.com/jesseg-dev/portfolio-site/internal/projects/policy"
)

// ErrForbidden is returned when a valid session is refused by the policy.
var ErrForbidden = errors.New("not allowed to modify this project")

// Store is the project record store (postgres or memory).
type Store interface {
	Create(ctx context.Context, p *domain.Project) error
	List(ctx context.Context) ([]*domain.Project, error)
	ListPublished(ctx context.Context) ([]*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Replace(ctx context.Context, p *domain.Project) (*domain.Project, error)
	Patch(ctx context.Context, id string, patch domain.ProjectPatch, updatedAt time.Time) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}

// ProjectService handles project-related business logic. Every mutating call
// takes the caller's session and is authorized before the store is touched.
type ProjectService struct {
	store  Store
	policy policy.Policy
	now    func() time.Time
}

// NewProjectService creates a new project service
func NewProjectService(store Store, pol policy.Policy) *ProjectService {
	return &ProjectService{
		store:  store,
		policy: pol,
		// postgres timestamptz keeps microseconds
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// ListAdmin returns every project, newest first.
func (s *ProjectService) ListAdmin(ctx context.Context, sess *authdomain.Session) ([]*domain.Project, error) {
	if !sess.Valid(s.now()) {
		return nil, authdomain.ErrUnauthorized
	}
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	domain.SortAdmin(items)
	return items, nil
}

// ListPublic returns published projects, featured first then newest.
func (s *ProjectService) ListPublic(ctx context.Context) ([]*domain.Project, error) {
	items, err := s.store.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published projects: %w", err)
	}
	// the store's ordering is not relied on
	return domain.PublicListing(items), nil
}

// GetAdmin returns any project by id.
func (s *ProjectService) GetAdmin(ctx context.Context, sess *authdomain.Session, id string) (*domain.Project, error) {
	if !sess.Valid(s.now()) {
		return nil, authdomain.ErrUnauthorized
	}
	return s.get(ctx, id)
}

// GetPublic returns a project only if it is published.
func (s *ProjectService) GetPublic(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Published {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// Create validates the input and stores a new project with server-side id and timestamps.
func (s *ProjectService) Create(ctx context.Context, sess *authdomain.Session, in domain.ProjectInput) (*domain.Project, error) {
	if err := s.authorize(sess, ""); err != nil {
		return nil, err
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := domain.NewProject(uuid.NewString(), in, s.now())
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// Replace overwrites all client-settable fields of an existing project.
func (s *ProjectService) Replace(ctx context.Context, sess *authdomain.Session, id string, in domain.ProjectInput) (*domain.Project, error) {
	if err := s.authorize(sess, id); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p := &domain.Project{ID: id}
	in.Replace(p, s.now())

	out, err := s.store.Replace(ctx, p)
	if err != nil {
		return nil, wrapStoreErr("replace project", err)
	}
	return out, nil
}

// Patch updates only the fields present in the patch.
func (s *ProjectService) Patch(ctx context.Context, sess *authdomain.Session, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	if err := s.authorize(sess, id); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrNotFound
	}

	patch = patch.Normalize()
	if patch.Empty() {
		return nil, &domain.ValidationError{Fields: map[string]string{"body": "at least one field is required"}}
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	out, err := s.store.Patch(ctx, id, patch, s.now())
	if err != nil {
		return nil, wrapStoreErr("patch project", err)
	}
	return out, nil
}

// Delete physically removes a project. A missing id is ErrNotFound.
func (s *ProjectService) Delete(ctx context.Context, sess *authdomain.Session, id string) error {
	if err := s.authorize(sess, id); err != nil {
		return err
	}
	if !validID(id) {
		return domain.ErrNotFound
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return wrapStoreErr("delete project", err)
	}
	return nil
}

// Seed creates a project unless one with the same title exists. It is the
// trusted startup path and is not session-gated.
func (s *ProjectService) Seed(ctx context.Context, in domain.ProjectInput) (bool, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return false, err
	}

	exists, err := s.store.ExistsByTitle(ctx, in.Title)
	if err != nil {
		return false, fmt.Errorf("check project title: %w", err)
	}
	if exists {
		return false, nil
	}

	p := domain.NewProject(uuid.NewString(), in, s.now())
	if err := s.store.Create(ctx, p); err != nil {
		return false, fmt.Errorf("seed project: %w", err)
	}
	return true, nil
}

func (s *ProjectService) authorize(sess *authdomain.Session, projectID string) error {
	if !sess.Valid(s.now()) {
		return authdomain.ErrUnauthorized
	}
	if !s.policy.CanMutate(sess, projectID) {
		return ErrForbidden
	}
	return nil
}

func (s *ProjectService) get(ctx context.Context, id string) (*domain.Project, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, wrapStoreErr("get project", err)
	}
	return p, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func wrapStoreErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
