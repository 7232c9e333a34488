package site

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Profile is the static copy shown on the home, about and contact pages.
type Profile struct {
	Name        string      `yaml:"name"`
	Headline    string      `yaml:"headline"`
	Subheadline string      `yaml:"subheadline"`
	Intro       string      `yaml:"intro"`
	Email       string      `yaml:"email"`
	Location    string      `yaml:"location"`
	CVURL       string      `yaml:"cv_url"`
	Links       []Link      `yaml:"links"`
	Highlights  []Highlight `yaml:"highlights"`
	Journey     []string    `yaml:"journey"`
	Education   []Education `yaml:"education"`
	Experience  []Job       `yaml:"experience"`
	Skills      []SkillSet  `yaml:"skills"`
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type Highlight struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type Education struct {
	Degree string `yaml:"degree"`
	School string `yaml:"school"`
	Note   string `yaml:"note"`
}

type Job struct {
	Role   string   `yaml:"role"`
	Note   string   `yaml:"note"`
	Duties []string `yaml:"duties"`
}

type SkillSet struct {
	Group string   `yaml:"group"`
	Items []string `yaml:"items"`
}

// ParseProfile decodes profile YAML. Name and email are required.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.Name == "" || p.Email == "" {
		return nil, fmt.Errorf("parse profile: name and email are required")
	}
	return &p, nil
}
