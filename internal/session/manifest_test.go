package session

import (
	"testing"
	"time"
)

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Manifest{
		Corpus:     "arctic",
		Count:      100,
		LenSoftMax: 80,
		Ordered:    false,
		Seed:       42,
		StartedAt:  time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}

	if err := WriteManifest(dir, want); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got == nil {
		t.Fatal("manifest missing after write")
	}
	if got.Corpus != want.Corpus || got.Count != want.Count || got.Seed != want.Seed {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Fatalf("timestamp mismatch: %v", got.StartedAt)
	}
}

func TestReadManifestMissing(t *testing.T) {
	m, err := ReadManifest(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != nil {
		t.Fatalf("expected nil manifest, got %+v", m)
	}
}
