package cart

import (
	"github.com/google/uuid"

	"github.com/pmdelacruz/artifact-market/internal/registry"
)

// Line is one add-to-cart action. Adding the same artifact twice yields
// two lines with distinct cart ids.
type Line struct {
	registry.Artifact
	CartID   string `json:"cartId"`
	Quantity int    `json:"quantity"`
}

// NewLineID is unique per call even for the same artifact in the same
// millisecond, so a timestamp suffix is not enough.
func NewLineID(artifactID string) string {
	return artifactID + "-" + uuid.NewString()
}

// Total is the sum of value*quantity over lines, always recomputed.
func Total(lines []Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Value * int64(l.Quantity)
	}
	return total
}

// ArtifactIDs is the read-only "already added" projection, derived from
// the lines rather than tracked separately.
func ArtifactIDs(lines []Line) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ID] {
			seen[l.ID] = true
			out = append(out, l.ID)
		}
	}
	return out
}
