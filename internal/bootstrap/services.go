package bootstrap

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jesseg-dev/portfolio-site/config"
	"github.com/jesseg-dev/portfolio-site/internal/auth/password"
	authrepo "github.com/jesseg-dev/portfolio-site/internal/auth/repository"
	authservice "github.com/jesseg-dev/portfolio-site/internal/auth/service"
	"github.com/jesseg-dev/portfolio-site/internal/auth/session"
	"github.com/jesseg-dev/portfolio-site/internal/auth/token"
	"github.com/jesseg-dev/portfolio-site/internal/projects/policy"
	projectrepo "github.com/jesseg-dev/portfolio-site/internal/projects/repository"
	projectservice "github.com/jesseg-dev/portfolio-site/internal/projects/service"
	"github.com/jesseg-dev/portfolio-site/internal/seed"
)

// Services is the wired application layer shared by the server and the CLI.
type Services struct {
	Auth     *authservice.AuthService
	Projects *projectservice.ProjectService
	Seeder   *seed.Seeder
}

// NewServices builds the services over postgres when db is set and over the
// in-memory stores otherwise. Sessions and lockout always live in redis.
func NewServices(cfg *config.Config, db *sql.DB, rdb *redis.Client) (*Services, error) {
	var (
		users    authservice.UserStore
		projects projectservice.Store
	)
	if db != nil {
		users = authrepo.NewUserRepository(db)
		projects = projectrepo.NewProjectRepository(db)
	} else {
		users = authrepo.NewMemoryUserRepository()
		projects = projectrepo.NewMemoryProjectRepository()
	}

	authSvc, err := authservice.NewAuthService(
		users,
		session.NewStore(rdb),
		session.NewLockout(rdb, cfg.Session.LoginMaxAttempts, cfg.Session.LoginLockout),
		password.NewHasher(password.DefaultCost),
		token.NewSigner([]byte(cfg.Session.Secret), cfg.App.ServiceName),
		cfg.Session.TTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	projectSvc := projectservice.NewProjectService(projects, policy.SingleAdmin{Now: time.Now})

	return &Services{
		Auth:     authSvc,
		Projects: projectSvc,
		Seeder:   seed.New(authSvc, projectSvc),
	}, nil
}

// SeedAdmin is the configured admin credential.
func SeedAdmin(cfg *config.Config) seed.Admin {
	return seed.Admin{Email: cfg.Admin.Email, Password: cfg.Admin.Password, Name: cfg.Admin.Name}
}
