package index

import (
	"bytes"
	"encoding/gob"
	"reflect"
	"testing"

	"github.com/gcbaptista/go-address-matcher/model"
)

func testRegistry() []model.CanonicalAddress {
	return []model.CanonicalAddress{
		{ID: "c1", HouseNumber: "123", StreetName: "BEDFORD", StreetType: "AVE"},
		{ID: "c2", HouseNumber: "123", StreetName: "BERGEN", StreetType: "ST"},
		{ID: "c3", HouseNumber: "123", StreetName: "MAIN", StreetType: "ST"},
		{ID: "c4", HouseNumber: "500", StreetName: "BEDFORD", StreetType: "AVE"},
		{ID: "c5", HouseNumber: "123", StreetName: "BEDFERD", StreetType: "AVE"},
	}
}

func TestCandidatesByHouseNumber(t *testing.T) {
	bi := NewBlockingIndex(testRegistry())

	tx := &model.TransactionAddress{HouseNumber: "123", StreetName: "BEDFORD"}
	got := bi.Candidates(ByHouseNumber, tx)
	want := []int{0, 1, 2, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates(ByHouseNumber) = %v, want %v", got, want)
	}
}

func TestCandidatesByHouseNumberAndLetter(t *testing.T) {
	bi := NewBlockingIndex(testRegistry())

	tx := &model.TransactionAddress{HouseNumber: "123", StreetName: "BROADWAY"}
	got := bi.Candidates(ByHouseNumberAndLetter, tx)
	// BEDFORD, BERGEN, and BEDFERD share the B block at house 123.
	want := []int{0, 1, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates(ByHouseNumberAndLetter) = %v, want %v", got, want)
	}
}

func TestCandidatesByHouseNumberAndPhonetic(t *testing.T) {
	bi := NewBlockingIndex(testRegistry())

	// BEDFERD is a misspelling of BEDFORD with the same phonetic code, so
	// both land in the block; BERGEN does not.
	tx := &model.TransactionAddress{HouseNumber: "123", StreetName: "BEDFORD"}
	got := bi.Candidates(ByHouseNumberAndPhonetic, tx)
	want := []int{0, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates(ByHouseNumberAndPhonetic) = %v, want %v", got, want)
	}
}

func TestCandidatesPreserveRegistryOrder(t *testing.T) {
	bi := NewBlockingIndex(testRegistry())

	tx := &model.TransactionAddress{HouseNumber: "123"}
	got := bi.Candidates(ByHouseNumber, tx)
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("candidate positions not in registry order: %v", got)
		}
	}
}

func TestCandidatesMissingKey(t *testing.T) {
	bi := NewBlockingIndex(testRegistry())

	tx := &model.TransactionAddress{HouseNumber: "999", StreetName: "BEDFORD"}
	if got := bi.Candidates(ByHouseNumber, tx); got != nil {
		t.Errorf("Candidates(unknown house) = %v, want nil", got)
	}

	empty := &model.TransactionAddress{StreetName: "BEDFORD"}
	if got := bi.Candidates(ByHouseNumber, empty); got != nil {
		t.Errorf("Candidates(no house number) = %v, want nil", got)
	}
}

func TestCandidatesUnfoldedInput(t *testing.T) {
	bi := NewBlockingIndex(testRegistry())

	// Lookup keys fold the same way build keys do.
	tx := &model.TransactionAddress{HouseNumber: " 123 ", StreetName: "bedford"}
	got := bi.Candidates(ByHouseNumberAndPhonetic, tx)
	want := []int{0, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates(unfolded input) = %v, want %v", got, want)
	}
}

func TestKeyCount(t *testing.T) {
	bi := NewBlockingIndex(testRegistry())
	// House numbers 123 and 500.
	if got := bi.KeyCount(ByHouseNumber); got != 2 {
		t.Errorf("KeyCount(ByHouseNumber) = %d, want 2", got)
	}
	if got := NewBlockingIndex(nil).KeyCount(ByHouseNumber); got != 0 {
		t.Errorf("KeyCount(empty registry) = %d, want 0", got)
	}
}

func TestBlockingIndexGobRoundTrip(t *testing.T) {
	original := NewBlockingIndex(testRegistry())

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(original); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded := &BlockingIndex{}
	if err := gob.NewDecoder(&buf).Decode(decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	tx := &model.TransactionAddress{HouseNumber: "123", StreetName: "BEDFORD"}
	got := decoded.Candidates(ByHouseNumberAndPhonetic, tx)
	want := original.Candidates(ByHouseNumberAndPhonetic, tx)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("candidates after round trip = %v, want %v", got, want)
	}
}
