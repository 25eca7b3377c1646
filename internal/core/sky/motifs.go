package sky

import (
	"encoding/json"
	"time"
)

// Motif is one of the fixed lantern looks a wish can be rendered with
type Motif struct {
	Index       int
	Name        string
	Title       string
	Description string

	// Bob is the period of the motif's own gentle up and down sway
	Bob time.Duration
}

var motifs = [StyleCount]Motif{
	{Index: 0, Name: "classic", Title: "Classic", Description: "Traditional shape with visible bamboo ribs and warm light.", Bob: 4 * time.Second},
	{Index: 1, Name: "soft", Title: "Eternal Light", Description: "Minimal and borderless, a pure gradient of diffuse light.", Bob: 5 * time.Second},
	{Index: 2, Name: "geometric", Title: "Geometric", Description: "Low poly style with modern angular facets.", Bob: 6 * time.Second},
	{Index: 3, Name: "cylindrical", Title: "Cylindrical", Description: "Tall khom loi shape, stately and steady.", Bob: 7 * time.Second},
	{Index: 4, Name: "round", Title: "Spherical", Description: "Like a small full moon drifting in the sky.", Bob: 4500 * time.Millisecond},
	{Index: 5, Name: "patterned", Title: "Papel Picado", Description: "Subtle cut patterns that let rays of light escape.", Bob: 5500 * time.Millisecond},
}

// Motifs returns the motif gallery in index order
func Motifs() []Motif {
	out := make([]Motif, len(motifs))
	copy(out[:], motifs[:])
	return out
}

// MotifFor returns the motif for a style index, falling back to the first one
func MotifFor(style int) Motif {
	if !ValidStyle(style) {
		return motifs[0]
	}
	return motifs[style]
}

// MarshalJSON renders the bob period in milliseconds
func (m Motif) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index       int    `json:"index"`
		Name        string `json:"name"`
		Title       string `json:"title"`
		Description string `json:"description"`
		BobMS       int64  `json:"bob_ms"`
	}{m.Index, m.Name, m.Title, m.Description, m.Bob.Milliseconds()})
}
