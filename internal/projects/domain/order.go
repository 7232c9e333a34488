package domain

import "sort"

// PublicOrder reports whether a sorts before b on public pages:
// featured first, then newest createdAt, then id for a stable tie-break.
func PublicOrder(a, b *Project) bool {
	if a.Featured != b.Featured {
		return a.Featured
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// AdminOrder is newest first regardless of flags.
func AdminOrder(a, b *Project) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// PublicListing keeps only published projects and sorts them with PublicOrder.
// The input slice is not modified.
func PublicListing(all []*Project) []*Project {
	out := make([]*Project, 0, len(all))
	for _, p := range all {
		if p.Published {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return PublicOrder(out[i], out[j]) })
	return out
}

// SortAdmin sorts projects in place, newest first.
func SortAdmin(projects []*Project) {
	sort.SliceStable(projects, func(i, j int) bool { return AdminOrder(projects[i], projects[j]) })
}
