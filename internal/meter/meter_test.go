package meter

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestDecodeAcceptsRecordingShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []float64
	}{
		{"json array", `[-56.18996810913086, -45.71665573120117]`, []float64{-56.18996810913086, -45.71665573120117}},
		{"yaml list", "- -5.5\n- -7.25\n- 0\n", []float64{-5.5, -7.25, 0}},
		{"metering key", "metering: [-1, -2, -3]", []float64{-1, -2, -3}},
		{"json text field", `{"title": "take 1", "metering_data": "[-10.5, -20.25]"}`, []float64{-10.5, -20.25}},
		{"empty list", `[]`, []float64{}},
		{"infinite silence", `[-.inf, -3]`, []float64{math.Inf(-1), -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeString(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil buffer")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d samples, got %d", len(tt.want), len(got))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("sample %d: expected %v, got %v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		`"not a list"`,
		`{"title": "take 1"}`,
		`{"metering_data": "-1, -2"}`,
		`[-1, "loud", -3]`,
		`{"metering_data": "[-1, -2"}`,
	} {
		if _, err := DecodeString(in); !errors.Is(err, ErrMalformed) {
			t.Fatalf("input %q: expected ErrMalformed, got %v", in, err)
		}
	}
}

func TestBufferHelpers(t *testing.T) {
	b := Buffer{-30, -3, -12}
	if got := b.Duration(50 * time.Millisecond); got != 150*time.Millisecond {
		t.Fatalf("expected 150ms, got %v", got)
	}
	if i, v := b.Peak(); i != 1 || v != -3 {
		t.Fatalf("expected peak -3 at 1, got %v at %d", v, i)
	}
	if i, _ := Buffer(nil).Peak(); i != -1 {
		t.Fatalf("expected no peak for empty buffer, got %d", i)
	}
	if !math.IsInf(b.At(3), -1) || b.At(0) != -30 {
		t.Fatal("unexpected At result")
	}
}

func TestLiveSnapshotsAreIndependent(t *testing.T) {
	l := NewLive(4)
	l.Append(-10, -20)
	snap := l.Snapshot()
	l.Append(-30)

	if len(snap) != 2 {
		t.Fatalf("expected snapshot to keep 2 samples, got %d", len(snap))
	}
	if l.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", l.Len())
	}

	l.Reset()
	if l.Len() != 0 || len(snap) != 2 || snap[1] != -20 {
		t.Fatal("expected reset to leave earlier snapshots intact")
	}
}

func TestLiveConcurrentAppend(t *testing.T) {
	l := NewLive(0)
	var g errgroup.Group
	for w := range 8 {
		g.Go(func() error {
			for i := range 100 {
				l.Append(-float64(w*100 + i))
				_ = l.Snapshot()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if l.Len() != 800 {
		t.Fatalf("expected 800 samples, got %d", l.Len())
	}
}

func TestStreamAppendsLines(t *testing.T) {
	l := NewLive(0)
	in := "# meter\n-12.5\n\n-3 dB\n-inf\n0\n"
	if err := Stream(context.Background(), strings.NewReader(in), l); err != nil {
		t.Fatalf("stream: %v", err)
	}
	got := l.Snapshot()
	if len(got) != 4 || got[0] != -12.5 || got[1] != -3 || !math.IsInf(got[2], -1) || got[3] != 0 {
		t.Fatalf("unexpected samples %v", got)
	}
}

func TestStreamStopsOnBadLine(t *testing.T) {
	l := NewLive(0)
	err := Stream(context.Background(), strings.NewReader("-1\nloud\n-2\n"), l)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("expected samples before the bad line to be kept, got %d", l.Len())
	}
}

func TestStreamHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLive(0)
	if err := Stream(ctx, strings.NewReader("-1\n-2\n"), l); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if l.Len() != 0 {
		t.Fatalf("expected no samples after cancel, got %d", l.Len())
	}
}
