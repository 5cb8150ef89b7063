package model

import "testing"

func TestPortraitIdentity(t *testing.T) {
	t.Parallel()

	a := PortraitIdentity([]byte("selfie-one"))
	b := PortraitIdentity([]byte("selfie-one"))
	c := PortraitIdentity([]byte("selfie-two"))

	if a != b {
		t.Fatalf("identical payloads produced different identities: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("distinct payloads produced the same identity: %q", a)
	}
	if len(a) != 16 {
		t.Fatalf("identity length = %d, want 16", len(a))
	}
}

func TestNewPortraitDerivesIdentity(t *testing.T) {
	t.Parallel()

	data := []byte("photo-bytes")
	p := NewPortrait(data, 900, 1200, PortraitSourceCapture)

	if p.ID != PortraitIdentity(data) {
		t.Fatalf("portrait ID %q does not match identity of its bytes", p.ID)
	}
	if p.Width != 900 || p.Height != 1200 {
		t.Fatalf("dimensions not preserved: %dx%d", p.Width, p.Height)
	}
	if p.Source != PortraitSourceCapture {
		t.Fatalf("source = %q, want %q", p.Source, PortraitSourceCapture)
	}
}

func TestTryOnJobTransitions(t *testing.T) {
	t.Parallel()

	job := NewTryOnJob("portrait-1", "item-1")
	if !job.Active() {
		t.Fatal("fresh job should be active")
	}

	job.MarkProcessing()
	if job.Status != TryOnStatusProcessing || !job.Active() {
		t.Fatalf("unexpected state after MarkProcessing: %+v", job)
	}

	job.MarkSuccess("https://cdn.example/result.webp")
	if job.Active() {
		t.Fatal("successful job should not be active")
	}
	if job.ResultURL == "" || job.LastError != "" {
		t.Fatalf("unexpected terminal state: %+v", job)
	}

	clone := job.Clone()
	clone.MarkError(nil)
	if job.Status != TryOnStatusSuccess {
		t.Fatal("mutating a clone must not touch the original")
	}
}
