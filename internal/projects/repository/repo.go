package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jesseg-dev/portfolio-site/internal/projects/domain"
)

const projectColumns = `id::text, title, description, content, image_url, github_url, live_url, tags, featured, published, created_at, updated_at`

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project. ID and timestamps come from the caller.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO projects (id, title, description, content, image_url, github_url, live_url, tags, featured, published, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Title, p.Description, p.Content, p.ImageURL, p.GithubURL, p.LiveURL, p.Tags,
		p.Featured, p.Published, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// List returns every project, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
ORDER BY created_at DESC, id;
`
	return r.query(ctx, q)
}

// ListPublished returns published projects, featured first then newest.
func (r *ProjectRepository) ListPublished(ctx context.Context) ([]*domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE published = TRUE
ORDER BY featured DESC, created_at DESC, id;
`
	return r.query(ctx, q)
}

// Get returns one project by id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE id = $1;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Replace overwrites every client-settable column of an existing project.
func (r *ProjectRepository) Replace(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	const q = `
UPDATE projects
SET title = $2, description = $3, content = $4, image_url = $5, github_url = $6, live_url = $7,
    tags = $8, featured = $9, published = $10, updated_at = $11
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	out, err := scanProject(r.db.QueryRowContext(ctx, q,
		p.ID, p.Title, p.Description, p.Content, p.ImageURL, p.GithubURL, p.LiveURL, p.Tags,
		p.Featured, p.Published, p.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// Patch updates only the columns set in the patch. Unset fields are passed as
// NULL and kept by COALESCE.
func (r *ProjectRepository) Patch(ctx context.Context, id string, patch domain.ProjectPatch, updatedAt time.Time) (*domain.Project, error) {
	const q = `
UPDATE projects
SET title       = COALESCE($2, title),
    description = COALESCE($3, description),
    content     = COALESCE($4, content),
    image_url   = COALESCE($5, image_url),
    github_url  = COALESCE($6, github_url),
    live_url    = COALESCE($7, live_url),
    tags        = COALESCE($8, tags),
    featured    = COALESCE($9, featured),
    published   = COALESCE($10, published),
    updated_at  = $11
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	out, err := scanProject(r.db.QueryRowContext(ctx, q,
		id,
		nullString(patch.Title), nullString(patch.Description), nullString(patch.Content),
		nullString(patch.ImageURL), nullString(patch.GithubURL), nullString(patch.LiveURL),
		nullString(patch.Tags), nullBool(patch.Featured), nullBool(patch.Published),
		updatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// Delete physically removes a project.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM projects WHERE id = $1;`

	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExistsByTitle reports whether a project with this title (case-insensitive) exists.
func (r *ProjectRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM projects WHERE lower(title) = lower($1));`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, strings.TrimSpace(title)).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ProjectRepository) query(ctx context.Context, q string, args ...interface{}) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Content,
		&p.ImageURL, &p.GithubURL, &p.LiveURL, &p.Tags,
		&p.Featured, &p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
