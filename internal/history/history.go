// Package history provides the bounded undo stack for a coloring session.
package history

// DefaultDepth is the number of snapshots kept when no depth is configured.
const DefaultDepth = 15

// Stack holds buffer snapshots, most recent last, up to a fixed depth.
// Pushing past the depth silently discards the oldest snapshot.
type Stack struct {
	depth   int
	entries [][]uint8
}

// NewStack creates an empty stack that keeps at most depth snapshots.
// A non-positive depth selects DefaultDepth.
func NewStack(depth int) *Stack {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Stack{
		depth:   depth,
		entries: make([][]uint8, 0, depth),
	}
}

// Push appends a snapshot. The stack takes ownership of the slice; callers
// must pass a copy, never the live raster.
func (s *Stack) Push(snapshot []uint8) {
	if len(s.entries) == s.depth {
		// Shift instead of reslicing so the backing array does not grow forever.
		copy(s.entries, s.entries[1:])
		s.entries[len(s.entries)-1] = nil
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, snapshot)
}

// Pop removes and returns the most recent snapshot.
// The second result is false when the stack is empty.
func (s *Stack) Pop() ([]uint8, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	last := len(s.entries) - 1
	snapshot := s.entries[last]
	s.entries[last] = nil
	s.entries = s.entries[:last]
	return snapshot, true
}

// Clear empties the stack.
func (s *Stack) Clear() {
	for i := range s.entries {
		s.entries[i] = nil
	}
	s.entries = s.entries[:0]
}

// Len returns the number of stored snapshots.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Depth returns the maximum number of snapshots kept.
func (s *Stack) Depth() int {
	return s.depth
}
