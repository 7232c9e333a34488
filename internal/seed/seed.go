// Package seed creates the admin credential and the sample projects.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jesseg-dev/portfolio-site/internal/logging"
	"github.com/jesseg-dev/portfolio-site/internal/projects/domain"
)

//go:embed projects.yaml
var defaultProjects []byte

// AdminSeeder creates the admin credential when it is missing.
type AdminSeeder interface {
	EnsureAdmin(ctx context.Context, email, plain, displayName string) (bool, error)
}

// ProjectSeeder inserts a project unless one with the same title exists.
type ProjectSeeder interface {
	Seed(ctx context.Context, in domain.ProjectInput) (bool, error)
}

type Admin struct {
	Email    string
	Password string
	Name     string
}

// Fixture is one project entry in the seed file.
type Fixture struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Content     string `yaml:"content"`
	ImageURL    string `yaml:"image_url"`
	GithubURL   string `yaml:"github_url"`
	LiveURL     string `yaml:"live_url"`
	Tags        string `yaml:"tags"`
	Featured    bool   `yaml:"featured"`
	Published   *bool  `yaml:"published"`
}

func (f Fixture) Input() domain.ProjectInput {
	return domain.ProjectInput{
		Title:       f.Title,
		Description: f.Description,
		Content:     f.Content,
		ImageURL:    f.ImageURL,
		GithubURL:   f.GithubURL,
		LiveURL:     f.LiveURL,
		Tags:        f.Tags,
		Featured:    f.Featured,
		Published:   f.Published,
	}
}

type file struct {
	Projects []Fixture `yaml:"projects"`
}

// Parse decodes a seed file.
func Parse(data []byte) ([]Fixture, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Projects, nil
}

// Load reads the fixtures from path, or the embedded samples when path is empty.
func Load(path string) ([]Fixture, error) {
	if path == "" {
		return Parse(defaultProjects)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Result counts what a run created.
type Result struct {
	AdminCreated    bool
	ProjectsCreated int
	ProjectsSkipped int
}

type Seeder struct {
	admins   AdminSeeder
	projects ProjectSeeder
}

func New(admins AdminSeeder, projects ProjectSeeder) *Seeder {
	return &Seeder{admins: admins, projects: projects}
}

// Run ensures the admin credential and inserts missing fixtures. It is safe
// to run on every start.
func (s *Seeder) Run(ctx context.Context, admin Admin, fixtures []Fixture) (Result, error) {
	var res Result
	log := logging.NewLogger(ctx)

	if admin.Email != "" && admin.Password != "" {
		created, err := s.admins.EnsureAdmin(ctx, admin.Email, admin.Password, admin.Name)
		if err != nil {
			return res, fmt.Errorf("seed admin: %w", err)
		}
		res.AdminCreated = created
		if created {
			log.LogInfof("seed.admin", "created admin user %s", admin.Email)
		}
	}

	for _, f := range fixtures {
		created, err := s.projects.Seed(ctx, f.Input())
		if err != nil {
			return res, fmt.Errorf("seed project %q: %w", f.Title, err)
		}
		if created {
			res.ProjectsCreated++
		} else {
			res.ProjectsSkipped++
		}
	}

	log.LogInfof("seed.projects", "seeded projects: %d created, %d skipped", res.ProjectsCreated, res.ProjectsSkipped)
	return res, nil
}
