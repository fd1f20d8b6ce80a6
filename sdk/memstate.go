package sdk

import (
	"encoding/json"
	"os"
)

// MemState is a map-backed State for tests and local runs. With a filename
// set it snapshots the full map to disk as JSON after every write, which is
// enough to exercise reload fidelity without a real database.
type MemState struct {
	db       map[string]string
	filename string
}

func NewMemState() *MemState {
	return &MemState{db: make(map[string]string)}
}

// NewFileState persists every write to the given JSON file.
func NewFileState(filename string) *MemState {
	m := &MemState{db: make(map[string]string), filename: filename}
	m.loadFromFile()
	return m
}

func (m *MemState) Set(key, value string) {
	m.db[key] = value
	m.saveToFile()
}

func (m *MemState) Get(key string) *string {
	val, ok := m.db[key]
	if !ok {
		return nil
	}
	return &val
}

func (m *MemState) Delete(key string) {
	delete(m.db, key)
	m.saveToFile()
}

// Len reports the number of stored keys, handy for byte-identical
// before/after checks in tests.
func (m *MemState) Len() int { return len(m.db) }

// Snapshot copies the full map so tests can diff state across a call.
func (m *MemState) Snapshot() map[string]string {
	cp := make(map[string]string, len(m.db))
	for k, v := range m.db {
		cp[k] = v
	}
	return cp
}

func (m *MemState) saveToFile() {
	if m.filename == "" {
		return
	}
	data, err := json.MarshalIndent(m.db, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile(m.filename, data, 0644); err != nil {
		panic(err)
	}
}

func (m *MemState) loadFromFile() {
	if m.filename == "" {
		return
	}
	data, err := os.ReadFile(m.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		panic(err)
	}
	if err := json.Unmarshal(data, &m.db); err != nil {
		panic(err)
	}
}
