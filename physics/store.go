package physics

import "fmt"

// Handle is a stable index into a Store. Handles are never reused; removed
// bodies leave a tombstone so later handles keep their index.
type Handle int

// NoHandle is returned where no body matches.
const NoHandle Handle = -1

// Store owns rigid bodies in insertion order.
type Store struct {
	bodies  []RigidBody
	removed []bool
	live    int
}

func NewStore() *Store {
	return &Store{}
}

// Add appends a body and returns its handle.
func (s *Store) Add(b RigidBody) Handle {
	s.bodies = append(s.bodies, b)
	s.removed = append(s.removed, false)
	s.live++
	return Handle(len(s.bodies) - 1)
}

// Len returns the number of slots, tombstones included.
func (s *Store) Len() int {
	return len(s.bodies)
}

// Live returns the number of bodies that have not been removed.
func (s *Store) Live() int {
	return s.live
}

// Alive reports whether h refers to a body that has not been removed.
func (s *Store) Alive(h Handle) bool {
	return h >= 0 && int(h) < len(s.bodies) && !s.removed[h]
}

// Body returns the live body for h. The pointer is only valid until the next
// Add, so callers must not keep it past the current call.
func (s *Store) Body(h Handle) (*RigidBody, error) {
	if h < 0 || int(h) >= len(s.bodies) {
		return nil, fmt.Errorf("%w: %d of %d", ErrHandleOutOfRange, h, len(s.bodies))
	}
	if s.removed[h] {
		return nil, fmt.Errorf("%w: %d", ErrBodyRemoved, h)
	}
	return &s.bodies[h], nil
}

// Remove tombstones the body for h.
func (s *Store) Remove(h Handle) error {
	if _, err := s.Body(h); err != nil {
		return err
	}
	s.removed[h] = true
	s.live--
	return nil
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	return &Store{
		bodies:  append([]RigidBody(nil), s.bodies...),
		removed: append([]bool(nil), s.removed...),
		live:    s.live,
	}
}

// Snapshot copies every slot as it is right now. Later writes to the store do
// not show through the snapshot.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{store: s.Clone()}
}

// Snapshot is a read-only point-in-time view of a Store.
type Snapshot struct {
	store *Store
}

func (s Snapshot) Len() int {
	if s.store == nil {
		return 0
	}
	return s.store.Len()
}

// Body returns a copy of the body at h, or false for tombstones and bad handles.
func (s Snapshot) Body(h Handle) (RigidBody, bool) {
	if s.store == nil || !s.store.Alive(h) {
		return RigidBody{}, false
	}
	return s.store.bodies[h], true
}

// FirstOverlap returns the lowest handle other than self whose body overlaps b.
func (s Snapshot) FirstOverlap(b *RigidBody, self Handle) (Handle, error) {
	for i := 0; i < s.Len(); i++ {
		h := Handle(i)
		if h == self {
			continue
		}
		other, ok := s.Body(h)
		if !ok {
			continue
		}
		hit, err := Intersecting(b, &other)
		if err != nil {
			return NoHandle, fmt.Errorf("body %d vs %d: %w", self, h, err)
		}
		if hit {
			return h, nil
		}
	}
	return NoHandle, nil
}
