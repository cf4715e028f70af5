// Package store holds the canonical address registry a match run compares
// transactions against.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/gcbaptista/go-address-matcher/model"
)

// RegistryStore holds the canonical registry in registry order. Positions in
// Addresses are the candidate positions the blocking index hands out, so the
// slice is append-only between full replacements.
type RegistryStore struct {
	Mu        sync.RWMutex
	Addresses []model.CanonicalAddress
	IDToPos   map[string]int // Canonical ID to registry position
}

// NewRegistryStore creates an empty registry store.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{
		Addresses: make([]model.CanonicalAddress, 0),
		IDToPos:   make(map[string]int),
	}
}

// Replace swaps in a new registry snapshot. Duplicate canonical IDs keep
// their first position.
func (rs *RegistryStore) Replace(addresses []model.CanonicalAddress) {
	idToPos := make(map[string]int, len(addresses))
	for pos, addr := range addresses {
		if _, exists := idToPos[addr.ID]; !exists {
			idToPos[addr.ID] = pos
		}
	}

	rs.Mu.Lock()
	defer rs.Mu.Unlock()
	rs.Addresses = addresses
	rs.IDToPos = idToPos
}

// Snapshot returns the current registry slice. Callers must treat the result
// as read-only; Replace installs a fresh slice rather than mutating this one.
func (rs *RegistryStore) Snapshot() []model.CanonicalAddress {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()
	return rs.Addresses
}

// GetByID returns the canonical address with the given ID.
func (rs *RegistryStore) GetByID(id string) (model.CanonicalAddress, bool) {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()
	pos, exists := rs.IDToPos[id]
	if !exists {
		return model.CanonicalAddress{}, false
	}
	return rs.Addresses[pos], true
}

// Len returns the number of canonical addresses in the registry.
func (rs *RegistryStore) Len() int {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()
	return len(rs.Addresses)
}

// gobRegistryStoreData is a helper struct for Gob encoding/decoding
// RegistryStore data. It excludes the mutex.
type gobRegistryStoreData struct {
	Addresses []model.CanonicalAddress
	IDToPos   map[string]int
}

// GobEncode implements the gob.GobEncoder interface for RegistryStore.
func (rs *RegistryStore) GobEncode() ([]byte, error) {
	rs.Mu.RLock()
	defer rs.Mu.RUnlock()

	dataToEncode := gobRegistryStoreData{
		Addresses: rs.Addresses,
		IDToPos:   rs.IDToPos,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, fmt.Errorf("failed to gob encode registry store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for RegistryStore.
func (rs *RegistryStore) GobDecode(data []byte) error {
	decodedData := gobRegistryStoreData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return fmt.Errorf("failed to gob decode registry store data: %w", err)
	}

	rs.Mu.Lock()
	defer rs.Mu.Unlock()

	rs.Addresses = decodedData.Addresses
	rs.IDToPos = decodedData.IDToPos

	// Ensure fields are initialized if they were nil after decoding
	if rs.Addresses == nil {
		rs.Addresses = make([]model.CanonicalAddress, 0)
	}
	if rs.IDToPos == nil {
		rs.IDToPos = make(map[string]int)
	}

	return nil
}
