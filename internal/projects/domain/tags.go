package domain

import "strings"

// SplitTags turns the stored comma-separated tag text into display tags.
// Entries are trimmed and blanks dropped; order and duplicates are kept.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTags is the inverse of SplitTags: SplitTags(JoinTags(SplitTags(s))) == SplitTags(s).
func JoinTags(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ", ")
}

// TagList is SplitTags on the project's own tags, for templates.
func (p *Project) TagList() []string {
	return SplitTags(p.Tags)
}
