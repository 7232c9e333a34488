package policy

import (
	"time"

	authdomain "github.com/jesseg-dev/portfolio-site/internal/auth/domain"
)

// Policy decides whether a session may mutate a project. projectID is empty
// for create.
type Policy interface {
	CanMutate(sess *authdomain.Session, projectID string) bool
}

// SingleAdmin lets any valid session mutate any project.
type SingleAdmin struct {
	Now func() time.Time
}

func (p SingleAdmin) CanMutate(sess *authdomain.Session, _ string) bool {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return sess.Valid(now())
}
