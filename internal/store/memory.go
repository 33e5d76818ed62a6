package store

// MemoryKV is a KV held only in memory. Used by tests and when no settings
// file can be opened.
type MemoryKV struct {
	strings map[Key]string
	ints    map[Key]int
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		strings: make(map[Key]string),
		ints:    make(map[Key]int),
	}
}

// Exists reports whether key holds a value of either type.
func (m *MemoryKV) Exists(key Key) bool {
	_, s := m.strings[key]
	_, i := m.ints[key]
	return s || i
}

// ReadString returns the string stored under key.
func (m *MemoryKV) ReadString(key Key) (string, bool) {
	v, ok := m.strings[key]
	return v, ok
}

// ReadInt returns the integer stored under key.
func (m *MemoryKV) ReadInt(key Key) (int, bool) {
	v, ok := m.ints[key]
	return v, ok
}

// WriteString stores value under key, replacing a value of the other type.
func (m *MemoryKV) WriteString(key Key, value string) error {
	delete(m.ints, key)
	m.strings[key] = value
	return nil
}

// WriteInt stores value under key, replacing a value of the other type.
func (m *MemoryKV) WriteInt(key Key, value int) error {
	delete(m.strings, key)
	m.ints[key] = value
	return nil
}

// WriteInts stores every value.
func (m *MemoryKV) WriteInts(values map[Key]int) error {
	for key, value := range values {
		if err := m.WriteInt(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(key Key) error {
	delete(m.strings, key)
	delete(m.ints, key)
	return nil
}
