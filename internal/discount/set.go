package discount

// mapCodeSet implements CodeSet with a map for O(1) lookups.
type mapCodeSet struct {
	codes map[string]struct{}
}

// NewMapCodeSet creates a new map-based code set.
func NewMapCodeSet(capacity int) CodeSet {
	return &mapCodeSet{
		codes: make(map[string]struct{}, capacity),
	}
}

// Contains checks if a code exists in the set.
func (s *mapCodeSet) Contains(code string) bool {
	_, exists := s.codes[code]
	return exists
}

// Size returns the number of codes in the set.
func (s *mapCodeSet) Size() int {
	return len(s.codes)
}

// Add adds a code to the set.
func (s *mapCodeSet) Add(code string) {
	s.codes[code] = struct{}{}
}
