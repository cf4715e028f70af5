package store

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/gcbaptista/go-address-matcher/model"
)

func sampleRegistry() []model.CanonicalAddress {
	return []model.CanonicalAddress{
		{ID: "c1", HouseNumber: "123", StreetName: "BEDFORD", StreetType: "AVE", FullAddress: "123 BEDFORD AVE"},
		{ID: "c2", HouseNumber: "500", StreetName: "MAIN", StreetType: "ST", FullAddress: "500 MAIN ST"},
	}
}

func TestReplaceAndLookup(t *testing.T) {
	rs := NewRegistryStore()
	rs.Replace(sampleRegistry())

	if rs.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rs.Len())
	}

	byID, ok := rs.GetByID("c1")
	if !ok || byID.StreetName != "BEDFORD" {
		t.Errorf("GetByID(c1) = %+v, %v; want BEDFORD", byID, ok)
	}
	if _, ok := rs.GetByID("missing"); ok {
		t.Error("GetByID(missing) should report missing ID")
	}
}

func TestReplaceKeepsFirstPositionForDuplicateIDs(t *testing.T) {
	rs := NewRegistryStore()
	rs.Replace([]model.CanonicalAddress{
		{ID: "dup", HouseNumber: "1", StreetName: "FIRST"},
		{ID: "dup", HouseNumber: "2", StreetName: "SECOND"},
	})

	addr, ok := rs.GetByID("dup")
	if !ok || addr.StreetName != "FIRST" {
		t.Errorf("GetByID(dup) = %+v, want first occurrence", addr)
	}
}

func TestSnapshotSurvivesReplace(t *testing.T) {
	rs := NewRegistryStore()
	rs.Replace(sampleRegistry())

	snapshot := rs.Snapshot()
	rs.Replace([]model.CanonicalAddress{{ID: "c9", HouseNumber: "9", StreetName: "NINTH"}})

	// The old snapshot keeps pointing at the pre-replacement registry.
	if len(snapshot) != 2 || snapshot[0].ID != "c1" {
		t.Errorf("old snapshot changed after Replace: %+v", snapshot)
	}
	if rs.Len() != 1 {
		t.Errorf("Len() after Replace = %d, want 1", rs.Len())
	}
}

func TestRegistryStoreGobRoundTrip(t *testing.T) {
	original := NewRegistryStore()
	original.Replace(sampleRegistry())

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(original); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded := &RegistryStore{}
	if err := gob.NewDecoder(&buf).Decode(decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if decoded.Len() != original.Len() {
		t.Fatalf("decoded Len() = %d, want %d", decoded.Len(), original.Len())
	}
	addr, ok := decoded.GetByID("c2")
	if !ok || addr.FullAddress != "500 MAIN ST" {
		t.Errorf("decoded GetByID(c2) = %+v, %v", addr, ok)
	}
}

func TestGobDecodeEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(NewRegistryStore()); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded := &RegistryStore{}
	if err := gob.NewDecoder(&buf).Decode(decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Addresses == nil || decoded.IDToPos == nil {
		t.Error("decoded store fields not initialized")
	}
}
