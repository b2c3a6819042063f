package physics

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestStoreHandles(t *testing.T) {
	s := NewStore()
	for i := 0; i < 3; i++ {
		h := s.Add(bodyAt(mgl64.Vec3{float64(i), 0, 0}, UnitBox()))
		if int(h) != i {
			t.Fatalf("handle %d, want %d", h, i)
		}
	}

	b, err := s.Body(1)
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	if b.Position.X() != 1 {
		t.Fatalf("body 1 position = %v", b.Position)
	}

	for _, h := range []Handle{-1, 3, 100} {
		if _, err := s.Body(h); !errors.Is(err, ErrHandleOutOfRange) {
			t.Fatalf("handle %d: expected ErrHandleOutOfRange, got %v", h, err)
		}
	}
}

func TestStoreRemoveKeepsHandlesStable(t *testing.T) {
	s := NewStore()
	a := s.Add(bodyAt(mgl64.Vec3{0, 0, 0}, UnitBox()))
	b := s.Add(bodyAt(mgl64.Vec3{5, 0, 0}, UnitBox()))

	if err := s.Remove(a); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Body(a); !errors.Is(err, ErrBodyRemoved) {
		t.Fatalf("expected ErrBodyRemoved, got %v", err)
	}
	if err := s.Remove(a); !errors.Is(err, ErrBodyRemoved) {
		t.Fatalf("double remove: expected ErrBodyRemoved, got %v", err)
	}

	body, err := s.Body(b)
	if err != nil || body.Position.X() != 5 {
		t.Fatalf("surviving body moved or lost: %v %v", body, err)
	}

	c := s.Add(bodyAt(mgl64.Vec3{}, UnitBox()))
	if c != 2 {
		t.Fatalf("handle reused: got %d, want 2", c)
	}
	if s.Len() != 3 || s.Live() != 2 {
		t.Fatalf("len=%d live=%d, want 3 and 2", s.Len(), s.Live())
	}
}

func TestStoreSnapshotIsolation(t *testing.T) {
	s := NewStore()
	h := s.Add(bodyAt(mgl64.Vec3{1, 2, 3}, UnitBox()))
	snap := s.Snapshot()

	b, _ := s.Body(h)
	b.Position = mgl64.Vec3{9, 9, 9}
	s.Add(bodyAt(mgl64.Vec3{}, UnitBox()))

	got, ok := snap.Body(h)
	if !ok {
		t.Fatalf("snapshot lost body")
	}
	if got.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("snapshot saw later write: %v", got.Position)
	}
	if snap.Len() != 1 {
		t.Fatalf("snapshot len = %d, want 1", snap.Len())
	}
}

func TestStoreClone(t *testing.T) {
	s := NewStore()
	h := s.Add(bodyAt(mgl64.Vec3{}, UnitBox()))
	c := s.Clone()

	cb, _ := c.Body(h)
	cb.Velocity = mgl64.Vec3{1, 0, 0}
	if err := c.Remove(h); err != nil {
		t.Fatalf("remove on clone: %v", err)
	}

	b, err := s.Body(h)
	if err != nil {
		t.Fatalf("original affected by clone removal: %v", err)
	}
	if b.Velocity != (mgl64.Vec3{}) {
		t.Fatalf("original affected by clone write: %v", b.Velocity)
	}
}

func TestSnapshotFirstOverlap(t *testing.T) {
	s := NewStore()
	self := s.Add(bodyAt(mgl64.Vec3{}, Sphere(0.5)))
	gone := s.Add(bodyAt(mgl64.Vec3{0.2, 0, 0}, UnitBox()))
	s.Add(bodyAt(mgl64.Vec3{10, 0, 0}, UnitBox()))
	near := s.Add(bodyAt(mgl64.Vec3{0.8, 0, 0}, UnitBox()))
	s.Add(bodyAt(mgl64.Vec3{-0.8, 0, 0}, UnitBox()))

	if err := s.Remove(gone); err != nil {
		t.Fatalf("remove: %v", err)
	}

	b, _ := s.Body(self)
	hit, err := s.Snapshot().FirstOverlap(b, self)
	if err != nil {
		t.Fatalf("first overlap: %v", err)
	}
	if hit != near {
		t.Fatalf("first overlap = %d, want %d", hit, near)
	}

	s.Add(bodyAt(mgl64.Vec3{}, Shape{}))
	lone := bodyAt(mgl64.Vec3{100, 0, 0}, Sphere(0.5))
	if _, err := s.Snapshot().FirstOverlap(&lone, NoHandle); !errors.Is(err, ErrUnsupportedShapePair) {
		t.Fatalf("expected ErrUnsupportedShapePair, got %v", err)
	}
}
