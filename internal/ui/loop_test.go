package ui

import "testing"

func TestLoopModeCycle(t *testing.T) {
	m := LoopOff
	want := []LoopMode{LoopTake, LoopAll, LoopOff}
	for i, w := range want {
		m = m.Next()
		if m != w {
			t.Fatalf("step %d: expected %v, got %v", i, w, m)
		}
	}
}

func TestParseLoopMode(t *testing.T) {
	for _, name := range []string{"off", "take", "all"} {
		m, err := ParseLoopMode(name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if m.String() != name {
			t.Fatalf("expected %q to round trip, got %q", name, m.String())
		}
	}
	if m, err := ParseLoopMode(""); err != nil || m != LoopOff {
		t.Fatalf("expected empty name to mean off, got %v, %v", m, err)
	}
	if _, err := ParseLoopMode("forever"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestLoopModeIcon(t *testing.T) {
	if LoopOff.Icon() != "" {
		t.Fatal("expected no icon when looping is off")
	}
	if LoopTake.Icon() == LoopAll.Icon() {
		t.Fatal("expected distinct icons")
	}
}
