// Package stack holds the track-grid records that layouts refer to.
package stack

import "fmt"

// RelZ says whether a track intersection sits before or after the crossing
// track along the routing direction.
type RelZ int

const (
	Before RelZ = iota
	After
)

func (r RelZ) String() string {
	if r == After {
		return "after"
	}
	return "before"
}

// ParseRelZ converts "before" or "after" into a RelZ.
func ParseRelZ(s string) (RelZ, error) {
	switch s {
	case "before", "Before":
		return Before, nil
	case "after", "After":
		return After, nil
	}
	return Before, fmt.Errorf("unknown relz %q", s)
}

// TrackIntersection addresses a point on the routing grid.
type TrackIntersection struct {
	Layer int  // Metal layer index
	Track int  // Track index within the layer
	At    int  // Position along the track, in crossing-track units
	RelZ  RelZ // Side of the crossing track
}

func (t TrackIntersection) String() string {
	return fmt.Sprintf("m%d/t%d@%d(%s)", t.Layer, t.Track, t.At, t.RelZ)
}

// Assign binds a net to a track intersection.
type Assign struct {
	Net string
	At  TrackIntersection
}
