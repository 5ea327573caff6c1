package runutil

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestEffectiveThreads(t *testing.T) {
	if got := EffectiveThreads(4); got != 4 {
		t.Fatalf("want 4, got %d", got)
	}
	if got := EffectiveThreads(0); got != runtime.NumCPU() {
		t.Fatalf("0 → all CPUs, got %d", got)
	}
}

func TestEffectiveMinQuality(t *testing.T) {
	q, w := EffectiveMinQuality(true, 9)
	if q != 15 || len(w) != 1 {
		t.Fatalf("long only should raise to 15 with a warning, got %d %v", q, w)
	}
	q, w = EffectiveMinQuality(true, 20)
	if q != 20 || len(w) != 0 {
		t.Fatalf("higher values are kept, got %d %v", q, w)
	}
	q, w = EffectiveMinQuality(false, 9)
	if q != 9 || len(w) != 0 {
		t.Fatalf("hybrid mode keeps the value, got %d %v", q, w)
	}
}

func TestPrepareOutdir(t *testing.T) {
	base := t.TempDir()
	out := filepath.Join(base, "out")

	warns, err := PrepareOutdir(out, true)
	if err != nil || len(warns) != 1 {
		t.Fatalf("force on missing dir: warns=%v err=%v", warns, err)
	}
	if err := os.WriteFile(filepath.Join(out, "stale"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := PrepareOutdir(out, false); !errors.Is(err, ErrOutdirExists) {
		t.Fatalf("want ErrOutdirExists, got %v", err)
	}

	if _, err := PrepareOutdir(out, true); err != nil {
		t.Fatalf("force: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "stale")); !os.IsNotExist(err) {
		t.Fatalf("force should have cleared the directory")
	}
}

func TestSeenSet(t *testing.T) {
	s := NewSeenSet[string](2)
	if s.Seen("a") || s.Seen("b") {
		t.Fatalf("fresh keys reported as seen")
	}
	if !s.Seen("a") {
		t.Fatalf("a should be seen")
	}
	s.Seen("c") // forgets a, the oldest
	if !s.Seen("b") {
		t.Fatalf("b should still be held")
	}
	if s.Seen("a") {
		t.Fatalf("a should have been forgotten")
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
}
