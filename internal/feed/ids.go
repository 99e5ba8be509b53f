package feed

// IDGenerator hands out identifiers. The manager calls it under its lock, so
// implementations need not be safe for concurrent use.
type IDGenerator interface {
	Next() int64
}

// Sequence is a counter starting at 1.
type Sequence struct {
	last int64
}

// NewSequence returns a sequence whose first value is after+1.
func NewSequence(after int64) *Sequence {
	return &Sequence{last: after}
}

func (s *Sequence) Next() int64 {
	s.last++
	return s.last
}

// Observe moves the sequence past id.
func (s *Sequence) Observe(id int64) {
	if id > s.last {
		s.last = id
	}
}
