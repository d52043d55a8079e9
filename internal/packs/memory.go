package packs

// Memory is a Table backed by a plain in-process map. It is safe for
// concurrent reads; it is not safe to mutate concurrently with reads.
type Memory struct {
	words map[string][]string
}

// NewMemory returns a Memory table seeded with words.
func NewMemory(words map[string][]string) *Memory {
	m := &Memory{words: make(map[string][]string, len(words))}
	for code, list := range words {
		cp := make([]string, len(list))
		copy(cp, list)
		m.words[code] = cp
	}
	return m
}

// Words implements Table.
func (m *Memory) Words(code string) []string {
	return m.words[code]
}

// AllCodes implements Table.
func (m *Memory) AllCodes() []string {
	codes := make([]string, 0, len(m.words))
	for code := range m.words {
		codes = append(codes, code)
	}
	return codes
}

// Bootstrap returns a small built-in word table covering just enough
// surface area (English and German, including a handful of eszett-bearing
// entries) for the library to be usable without an external dictionary and
// for the test suite to exercise every pipeline stage. Production
// deployments are expected to supply their own Table, e.g.
// wordstore.PostgresTable.
func Bootstrap() *Memory {
	return NewMemory(map[string][]string{
		"en": {
			"shit", "bitch", "ass", "damn", "bastard", "crap", "bollocks",
		},
		"de": {
			"scheiße", "arschloch",
		},
	})
}
