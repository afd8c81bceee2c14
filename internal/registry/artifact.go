package registry

import (
	"strings"
	"time"
)

// Artifact is the registry's own record shape; this service never writes
// artifacts, it only reads them (and forwards dashboard writes untouched).
type Artifact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Period    string    `json:"period"`
	Origin    string    `json:"origin"`
	Value     int64     `json:"value"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Revoked   bool      `json:"revoked"`
}

// FilterPublished keeps only artifacts that are not revoked.
func FilterPublished(items []Artifact) []Artifact {
	out := make([]Artifact, 0, len(items))
	for _, a := range items {
		if !a.Revoked {
			out = append(out, a)
		}
	}
	return out
}

// SearchByName filters items whose name contains q, case-insensitive.
// An empty query returns items unchanged.
func SearchByName(items []Artifact, q string) []Artifact {
	q = strings.TrimSpace(strings.ToLower(q))
	if q == "" {
		return items
	}
	out := make([]Artifact, 0, len(items))
	for _, a := range items {
		if strings.Contains(strings.ToLower(a.Name), q) {
			out = append(out, a)
		}
	}
	return out
}
