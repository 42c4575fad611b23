package stoplist

import "sort"

// Source records where a stopword came from.
type Source int

const (
	SourceBuiltin Source = iota // English list shipped with the module
	SourceFile                  // terms: entries of a stoplist YAML file
	SourceUser                  // added at runtime
)

func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceFile:
		return "file"
	default:
		return "user"
	}
}

// Manager holds the active stopword set.
type Manager struct {
	stops map[string]Source
}

// NewManager creates a manager seeded with the given words as user entries.
func NewManager(initialStops []string) *Manager {
	m := &Manager{stops: make(map[string]Source, len(initialStops))}
	m.AddAll(initialStops, SourceUser)
	return m
}

// NewEnglish creates a manager seeded with the built-in English list.
func NewEnglish() *Manager {
	m := &Manager{stops: make(map[string]Source, len(english))}
	m.AddAll(english, SourceBuiltin)
	return m
}

// IsStop checks if a token is a stopword
func (m *Manager) IsStop(token string) bool {
	_, ok := m.stops[token]
	return ok
}

// Add adds a token to the stoplist. An existing entry keeps its source.
func (m *Manager) Add(token string, src Source) {
	if token == "" {
		return
	}
	if _, ok := m.stops[token]; !ok {
		m.stops[token] = src
	}
}

// AddAll adds every token with the same source.
func (m *Manager) AddAll(tokens []string, src Source) {
	for _, t := range tokens {
		m.Add(t, src)
	}
}

// Remove removes a token from the stoplist
func (m *Manager) Remove(token string) {
	delete(m.stops, token)
}

// SourceOf reports where a stopword came from.
func (m *Manager) SourceOf(token string) (Source, bool) {
	src, ok := m.stops[token]
	return src, ok
}

// Len returns the number of stopwords.
func (m *Manager) Len() int { return len(m.stops) }

// All returns all stopwords in sorted order.
func (m *Manager) All() []string {
	result := make([]string, 0, len(m.stops))
	for s := range m.stops {
		result = append(result, s)
	}
	sort.Strings(result)
	return result
}

// English returns a copy of the built-in English stopword list.
func English() []string {
	out := make([]string, len(english))
	copy(out, english)
	return out
}
