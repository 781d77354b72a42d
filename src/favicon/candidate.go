package favicon

import "github.com/seventv/IconProcessor/src/image"

// Candidate is an icon reference together with its pixel dimensions.
type Candidate struct {
	URL  string          `json:"url"`
	Type image.ImageType `json:"type,omitempty"`
	Size image.Size      `json:"size"`
}

// Best returns the candidate with the largest area. Earlier candidates win
// ties.
func Best(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Size.Area() > best.Size.Area() {
			best = c
		}
	}

	return best, true
}
