package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/systems"
)

// selection is the object being dragged and the pointer's offset from its
// anchor at the moment it was picked.
type selection struct {
	kind   systems.PickKind
	index  int
	offset r2.Vec
}

// FindNearest returns what lies under the board point p.
func (g *Game) FindNearest(p r2.Vec) systems.Pick {
	return systems.FindNearest(p, g.fireflies, g.tracks, g.cfg.Picking)
}

// Selection returns the object being dragged, if any.
func (g *Game) Selection() systems.Pick {
	return systems.Pick{Kind: g.sel.kind, Index: g.sel.index}
}

// PointerDown picks the firefly or track under p. Ignored while running.
func (g *Game) PointerDown(p r2.Vec) {
	if g.running {
		return
	}
	g.clearSelection()

	pick := g.FindNearest(p)
	switch pick.Kind {
	case systems.PickFirefly:
		f := &g.fireflies[pick.Index]
		f.Selected = true
		g.sel = selection{kind: pick.Kind, index: pick.Index, offset: r2.Sub(f.Position(g.tracks), p)}
	case systems.PickTrack:
		tr := &g.tracks[pick.Index]
		tr.Selected = true
		g.sel = selection{kind: pick.Kind, index: pick.Index, offset: r2.Sub(tr.Origin, p)}
	}
}

// PointerMove drags the selection. A dragged firefly slides to the nearest
// point of its own track and carries its linked peers; a dragged track
// moves its origin.
func (g *Game) PointerMove(p r2.Vec) {
	if g.running || g.sel.kind == systems.PickNone {
		return
	}
	target := r2.Add(p, g.sel.offset)

	switch g.sel.kind {
	case systems.PickFirefly:
		f := &g.fireflies[g.sel.index]
		tr := &g.tracks[f.Track]
		phase, _ := tr.Project(target)
		f.Phase = tr.Seat(phase)
		g.links.Propagate(g.sel.index, g.fireflies, g.tracks)
	case systems.PickTrack:
		g.tracks[g.sel.index].Origin = target
	}
	g.trails.RecalcInit(g.fireflies, g.tracks)
}

// PointerUp ends any drag.
func (g *Game) PointerUp(r2.Vec) {
	g.clearSelection()
}

func (g *Game) clearSelection() {
	switch g.sel.kind {
	case systems.PickFirefly:
		g.fireflies[g.sel.index].Selected = false
	case systems.PickTrack:
		g.tracks[g.sel.index].Selected = false
	}
	g.sel = selection{}
}
