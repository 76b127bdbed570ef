package relay

import "sync"

// defaultSeenCapacity bounds the number of evids remembered between polls.
const defaultSeenCapacity = 10000

// seenSet remembers the most recent evids. Once full, the oldest evid is
// forgotten to make room.
type seenSet struct {
	mu    sync.Mutex
	ids   map[string]struct{}
	ring  []string
	next  int
	limit int
}

func newSeenSet(limit int) *seenSet {
	if limit <= 0 {
		limit = defaultSeenCapacity
	}
	return &seenSet{
		ids:   make(map[string]struct{}, limit),
		ring:  make([]string, 0, limit),
		limit: limit,
	}
}

// contains reports whether evid is remembered.
func (s *seenSet) contains(evid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[evid]
	return ok
}

// add records evid and reports whether it was new.
func (s *seenSet) add(evid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[evid]; ok {
		return false
	}

	if len(s.ring) < s.limit {
		s.ring = append(s.ring, evid)
	} else {
		delete(s.ids, s.ring[s.next])
		s.ring[s.next] = evid
		s.next = (s.next + 1) % s.limit
	}
	s.ids[evid] = struct{}{}
	return true
}

func (s *seenSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
