package systems

import "testing"

func TestSystemRegistry(t *testing.T) {
	reg := NewSystemRegistry()

	want := []string{"motion", "bellflowers", "trails", "trace"}
	ids := reg.IDs()
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	if got := reg.GetName("bellflowers"); got != "Bellflowers" {
		t.Errorf("GetName = %q", got)
	}
	if got := reg.GetName("unknown"); got != "unknown" {
		t.Errorf("GetName fallback = %q", got)
	}

	reg.Register(SystemInfo{ID: "extra", Name: "Extra"})
	if ids := reg.IDs(); ids[len(ids)-1] != "extra" || reg.GetName("extra") != "Extra" {
		t.Errorf("registered system missing: %v", ids)
	}
}
