package systems

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/fireflies/components"
)

// ErrLinkIndex is returned when a synchronization group names a firefly that
// does not exist.
var ErrLinkIndex = errors.New("link group index out of range")

// Link ties a follower firefly to a leader at a fixed phase offset.
type Link struct {
	Firefly int
	Offset  float64
}

// LinkTable holds, for each firefly, the peers that follow it while it is
// dragged. Autonomous simulation never consults it.
type LinkTable struct {
	links [][]Link
}

// BuildLinkTable expands synchronization groups into per-firefly follower
// lists, capturing phase offsets from the current phases.
func BuildLinkTable(fireflies []components.Firefly, groups [][]int) (*LinkTable, error) {
	lt := &LinkTable{links: make([][]Link, len(fireflies))}
	for g, group := range groups {
		for _, idx := range group {
			if idx < 0 || idx >= len(fireflies) {
				return nil, fmt.Errorf("%w: group %d names firefly %d of %d", ErrLinkIndex, g, idx, len(fireflies))
			}
		}
		for _, lead := range group {
			base := fireflies[lead].Phase
			list := lt.links[lead]
			for _, dep := range group {
				if dep == lead {
					continue
				}
				list = append(list, Link{Firefly: dep, Offset: fireflies[dep].Phase - base})
			}
			lt.links[lead] = list
		}
	}
	return lt, nil
}

// Links returns the followers of firefly i.
func (lt *LinkTable) Links(i int) []Link {
	if i < 0 || i >= len(lt.links) {
		return nil
	}
	return lt.links[i]
}

// Propagate sets every follower of lead to the lead's phase plus its offset,
// wrapped onto the follower's own track.
func (lt *LinkTable) Propagate(lead int, fireflies []components.Firefly, tracks []components.Track) {
	base := fireflies[lead].Phase
	for _, l := range lt.Links(lead) {
		f := &fireflies[l.Firefly]
		f.Phase = tracks[f.Track].Wrap(base + l.Offset)
	}
}
