package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesseg-dev/portfolio-site/internal/projects/policy"
	"github.com/jesseg-dev/portfolio-site/internal/projects/repository"
	"github.com/jesseg-dev/portfolio-site/internal/projects/service"
)

type fakeAdmins struct {
	calls int
	err   error
}

func (f *fakeAdmins) EnsureAdmin(context.Context, string, string, string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.calls == 1, nil
}

func newProjectService() *service.ProjectService {
	return service.NewProjectService(repository.NewMemoryProjectRepository(), policy.SingleAdmin{Now: time.Now})
}

func TestLoad_EmbeddedDefaults(t *testing.T) {
	fixtures, err := Load("")
	require.NoError(t, err)
	require.Len(t, fixtures, 3)

	assert.Equal(t, "Network Performance Analysis Dashboard", fixtures[0].Title)
	assert.True(t, fixtures[0].Featured)
	assert.False(t, fixtures[1].Featured)
	for _, f := range fixtures {
		require.NoError(t, f.Input().Normalize().Validate(), f.Title)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("projects:\n  - title: Only One\n    description: d\n    published: false\n"), 0o600))

	fixtures, err := Load(path)
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	require.NotNil(t, fixtures[0].Published)
	assert.False(t, *fixtures[0].Published)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	admins := &fakeAdmins{}
	projects := newProjectService()
	s := New(admins, projects)

	fixtures, err := Load("")
	require.NoError(t, err)
	admin := Admin{Email: "admin@example.com", Password: "admin123", Name: "Admin User"}

	res, err := s.Run(ctx, admin, fixtures)
	require.NoError(t, err)
	assert.Equal(t, Result{AdminCreated: true, ProjectsCreated: 3}, res)

	res, err = s.Run(ctx, admin, fixtures)
	require.NoError(t, err)
	assert.Equal(t, Result{ProjectsSkipped: 3}, res)

	public, err := projects.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 3)
	assert.True(t, public[0].Featured)
	assert.True(t, public[1].Featured)
	assert.Equal(t, "Data Pipeline Automation Tool", public[2].Title)
}

func TestRun_Errors(t *testing.T) {
	ctx := context.Background()

	s := New(&fakeAdmins{err: errors.New("db down")}, newProjectService())
	_, err := s.Run(ctx, Admin{Email: "a@b.c", Password: "x"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed admin")

	s = New(&fakeAdmins{}, newProjectService())
	_, err = s.Run(ctx, Admin{}, []Fixture{{Title: "no description"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no description")
}
