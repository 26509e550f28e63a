package systems

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/fireflies/components"
)

func TestBuildLinkTable(t *testing.T) {
	fireflies := []components.Firefly{
		{Index: 0, Phase: 1},
		{Index: 1, Phase: 1.5},
		{Index: 2, Phase: 3},
		{Index: 3, Phase: 0.25},
	}
	lt, err := BuildLinkTable(fireflies, [][]int{{0, 2}, {1, 3}})
	if err != nil {
		t.Fatalf("BuildLinkTable: %v", err)
	}

	tests := []struct {
		lead int
		want []Link
	}{
		{0, []Link{{Firefly: 2, Offset: 2}}},
		{2, []Link{{Firefly: 0, Offset: -2}}},
		{1, []Link{{Firefly: 3, Offset: -1.25}}},
		{3, []Link{{Firefly: 1, Offset: 1.25}}},
	}
	for _, tc := range tests {
		got := lt.Links(tc.lead)
		if len(got) != len(tc.want) {
			t.Errorf("lead %d: %v, want %v", tc.lead, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("lead %d link %d: %v, want %v", tc.lead, i, got[i], tc.want[i])
			}
		}
	}
	if lt.Links(99) != nil {
		t.Error("expected no links for an unknown index")
	}
}

func TestBuildLinkTableRejectsBadIndex(t *testing.T) {
	fireflies := []components.Firefly{{Index: 0}, {Index: 1}}
	for _, groups := range [][][]int{{{0, 2}}, {{-1, 1}}} {
		if _, err := BuildLinkTable(fireflies, groups); !errors.Is(err, ErrLinkIndex) {
			t.Errorf("groups %v: got %v, want ErrLinkIndex", groups, err)
		}
	}
}

func TestPropagate(t *testing.T) {
	tracks := []components.Track{
		circle(t, r2.Vec{}, 1, 0),
		segment(t, r2.Vec{X: 3}, r2.Vec{Y: 1}, 0),
	}
	fireflies := []components.Firefly{
		{Index: 0, Track: 0, Phase: 1},
		{Index: 1, Track: 0, Phase: 5},
		{Index: 2, Track: 1, Phase: 1.5},
	}
	lt, err := BuildLinkTable(fireflies, [][]int{{0, 1, 2}})
	if err != nil {
		t.Fatal(err)
	}

	fireflies[0].Phase = 2
	lt.Propagate(0, fireflies, tracks)

	// 2 + 4 wraps on the circle
	if want := tracks[0].Wrap(6); !scalar.EqualWithinAbs(fireflies[1].Phase, want, 1e-12) {
		t.Errorf("follower 1 phase = %g, want %g", fireflies[1].Phase, want)
	}
	// 2 + 0.5 wraps on the length-2 segment
	if !scalar.EqualWithinAbs(fireflies[2].Phase, 0.5, 1e-12) {
		t.Errorf("follower 2 phase = %g, want 0.5", fireflies[2].Phase)
	}
	for i, f := range fireflies {
		if f.Phase < 0 || f.Phase >= tracks[f.Track].Length {
			t.Errorf("firefly %d phase %g out of range", i, f.Phase)
		}
	}
}
