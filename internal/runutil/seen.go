package runutil

// SeenSet remembers up to cap keys; the oldest key is forgotten first.
// Minimap2 keeps a read's records together, so a window is enough to stop
// a read name being written twice.
type SeenSet[K comparable] struct {
	ring []K
	next int
	full bool
	m    map[K]struct{}
}

// DefaultSeenWindow is used when NewSeenSet is given a non-positive size.
const DefaultSeenWindow = 1 << 16

func NewSeenSet[K comparable](size int) *SeenSet[K] {
	if size <= 0 {
		size = DefaultSeenWindow
	}
	return &SeenSet[K]{ring: make([]K, size), m: make(map[K]struct{}, 1024)}
}

// Seen records k and reports whether it was already held.
func (s *SeenSet[K]) Seen(k K) bool {
	if _, ok := s.m[k]; ok {
		return true
	}
	if s.full {
		delete(s.m, s.ring[s.next])
	}
	s.ring[s.next] = k
	s.m[k] = struct{}{}
	s.next++
	if s.next == len(s.ring) {
		s.next, s.full = 0, true
	}
	return false
}

func (s *SeenSet[K]) Len() int { return len(s.m) }
