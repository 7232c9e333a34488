package domain

import "time"

// Project is a single portfolio entry. It is storage-agnostic and used across
// repository, service, HTTP and view layers.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"imageUrl"`
	GithubURL   string    `json:"githubUrl"`
	LiveURL     string    `json:"liveUrl"`
	Tags        string    `json:"tags"`
	Featured    bool      `json:"featured"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectInput is the full client-settable field set, used by create and
// full replace. Published is a pointer so an omitted value can default to true.
type ProjectInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=1000"`
	Content     string `json:"content" validate:"max=50000"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,http_url,max=2048"`
	GithubURL   string `json:"githubUrl" validate:"omitempty,http_url,max=2048"`
	LiveURL     string `json:"liveUrl" validate:"omitempty,http_url,max=2048"`
	Tags        string `json:"tags" validate:"max=500"`
	Featured    bool   `json:"featured"`
	Published   *bool  `json:"published"`
}

// ProjectPatch carries only the fields a partial update sets; nil means "leave as is".
type ProjectPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	ImageURL    *string `json:"imageUrl"`
	GithubURL   *string `json:"githubUrl"`
	LiveURL     *string `json:"liveUrl"`
	Tags        *string `json:"tags"`
	Featured    *bool   `json:"featured"`
	Published   *bool   `json:"published"`
}

// Empty reports whether the patch sets no field at all.
func (p ProjectPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Content == nil &&
		p.ImageURL == nil && p.GithubURL == nil && p.LiveURL == nil &&
		p.Tags == nil && p.Featured == nil && p.Published == nil
}

// Apply writes the set fields of p onto proj.
func (p ProjectPatch) Apply(proj *Project) {
	if p.Title != nil {
		proj.Title = *p.Title
	}
	if p.Description != nil {
		proj.Description = *p.Description
	}
	if p.Content != nil {
		proj.Content = *p.Content
	}
	if p.ImageURL != nil {
		proj.ImageURL = *p.ImageURL
	}
	if p.GithubURL != nil {
		proj.GithubURL = *p.GithubURL
	}
	if p.LiveURL != nil {
		proj.LiveURL = *p.LiveURL
	}
	if p.Tags != nil {
		proj.Tags = *p.Tags
	}
	if p.Featured != nil {
		proj.Featured = *p.Featured
	}
	if p.Published != nil {
		proj.Published = *p.Published
	}
}

// NewProject builds a project from a normalized input with defaults applied.
func NewProject(id string, in ProjectInput, now time.Time) *Project {
	published := true
	if in.Published != nil {
		published = *in.Published
	}
	return &Project{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		ImageURL:    in.ImageURL,
		GithubURL:   in.GithubURL,
		LiveURL:     in.LiveURL,
		Tags:        in.Tags,
		Featured:    in.Featured,
		Published:   published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Replace overwrites every client-settable field of proj with in.
// ID and CreatedAt are kept.
func (in ProjectInput) Replace(proj *Project, now time.Time) {
	published := true
	if in.Published != nil {
		published = *in.Published
	}
	proj.Title = in.Title
	proj.Description = in.Description
	proj.Content = in.Content
	proj.ImageURL = in.ImageURL
	proj.GithubURL = in.GithubURL
	proj.LiveURL = in.LiveURL
	proj.Tags = in.Tags
	proj.Featured = in.Featured
	proj.Published = published
	proj.UpdatedAt = now
}
