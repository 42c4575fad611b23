package ticket

// Store holds the tickets of one wrangling pass in insertion order.
// It is not safe for concurrent mutation; only the orchestrating goroutine appends.
type Store struct {
	tickets []*Ticket
	index   map[int64]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[int64]int)}
}

// Append adds a ticket at the end. Every record is kept, even one reusing
// an id; Append reports false in that case and Get keeps returning the
// first ticket with the id.
func (s *Store) Append(t *Ticket) bool {
	s.tickets = append(s.tickets, t)
	if _, ok := s.index[t.ID]; ok {
		return false
	}
	s.index[t.ID] = len(s.tickets) - 1
	return true
}

// Len returns the number of tickets.
func (s *Store) Len() int { return len(s.tickets) }

// At returns the i-th ticket in insertion order.
func (s *Store) At(i int) *Ticket { return s.tickets[i] }

// Get looks a ticket up by id, returning the first one appended.
func (s *Store) Get(id int64) (*Ticket, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.tickets[i], true
}

// All returns the tickets in insertion order. The slice is shared; do not append to it.
func (s *Store) All() []*Ticket { return s.tickets }

// Each visits tickets in insertion order until fn returns false.
func (s *Store) Each(fn func(i int, t *Ticket) bool) {
	for i, t := range s.tickets {
		if !fn(i, t) {
			return
		}
	}
}

// CommentCount totals comments across all tickets.
func (s *Store) CommentCount() int {
	n := 0
	for _, t := range s.tickets {
		n += len(t.Comments)
	}
	return n
}

// Reset empties the store.
func (s *Store) Reset() {
	s.tickets = nil
	s.index = make(map[int64]int)
}
