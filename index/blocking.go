// Package index implements the blocking index the match cascade uses to
// restrict candidate comparisons. Instead of scoring a transaction against
// the entire registry, each strategy asks for the candidate block keyed by
// the scheme it blocks on.
package index

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/gcbaptista/go-address-matcher/internal/normalize"
	"github.com/gcbaptista/go-address-matcher/internal/similarity"
	"github.com/gcbaptista/go-address-matcher/model"
)

// Scheme identifies one of the blocking key functions.
type Scheme string

const (
	// ByHouseNumber blocks on the house number alone.
	ByHouseNumber Scheme = "by_house_number"
	// ByHouseNumberAndLetter blocks on house number plus the first letter
	// of the street name.
	ByHouseNumberAndLetter Scheme = "by_house_number_and_letter"
	// ByHouseNumberAndPhonetic blocks on house number plus the phonetic
	// code of the street name, so misspelled streets still land in the
	// same block.
	ByHouseNumberAndPhonetic Scheme = "by_house_number_and_phonetic"
)

// Schemes lists every blocking scheme an index is built for.
var Schemes = []Scheme{ByHouseNumber, ByHouseNumberAndLetter, ByHouseNumberAndPhonetic}

// BlockingIndex maps blocking keys to the registry positions of the canonical
// addresses sharing that key. Positions within a block preserve registry
// order, which is what makes candidate iteration deterministic.
type BlockingIndex struct {
	Mu     sync.RWMutex
	Blocks map[Scheme]map[string][]int
}

// NewBlockingIndex builds the index over a registry snapshot. Addresses whose
// key components are empty under a scheme are left out of that scheme's
// blocks.
func NewBlockingIndex(registry []model.CanonicalAddress) *BlockingIndex {
	bi := &BlockingIndex{Blocks: make(map[Scheme]map[string][]int, len(Schemes))}
	for _, scheme := range Schemes {
		bi.Blocks[scheme] = make(map[string][]int)
	}
	for pos, addr := range registry {
		for _, scheme := range Schemes {
			key, ok := schemeKey(scheme, addr.HouseNumber, addr.StreetName)
			if !ok {
				continue
			}
			bi.Blocks[scheme][key] = append(bi.Blocks[scheme][key], pos)
		}
	}
	return bi
}

// Candidates returns the registry positions blocked with the transaction
// under the given scheme, in registry order. A missing key yields nil.
func (bi *BlockingIndex) Candidates(scheme Scheme, tx *model.TransactionAddress) []int {
	key, ok := schemeKey(scheme, tx.HouseNumber, tx.StreetName)
	if !ok {
		return nil
	}

	bi.Mu.RLock()
	defer bi.Mu.RUnlock()
	blocks, exists := bi.Blocks[scheme]
	if !exists {
		return nil
	}
	return blocks[key]
}

// KeyCount returns the number of distinct blocking keys under a scheme.
func (bi *BlockingIndex) KeyCount(scheme Scheme) int {
	bi.Mu.RLock()
	defer bi.Mu.RUnlock()
	return len(bi.Blocks[scheme])
}

func schemeKey(scheme Scheme, houseNumber, streetName string) (string, bool) {
	house := normalize.Field(houseNumber)
	if house == "" {
		return "", false
	}
	switch scheme {
	case ByHouseNumber:
		return house, true
	case ByHouseNumberAndLetter:
		letter := normalize.FirstLetter(streetName)
		if letter == "" {
			return "", false
		}
		return house + "|" + letter, true
	case ByHouseNumberAndPhonetic:
		code := similarity.PhoneticCode(normalize.Field(streetName))
		if code == "" {
			return "", false
		}
		return house + "|" + code, true
	}
	return "", false
}

// gobBlockingIndexData is a helper struct for Gob encoding/decoding
// BlockingIndex data. It excludes the mutex.
type gobBlockingIndexData struct {
	Blocks map[Scheme]map[string][]int
}

// GobEncode implements the gob.GobEncoder interface for BlockingIndex.
func (bi *BlockingIndex) GobEncode() ([]byte, error) {
	bi.Mu.RLock() // Ensure consistent data during encoding
	defer bi.Mu.RUnlock()

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(gobBlockingIndexData{Blocks: bi.Blocks}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for BlockingIndex.
func (bi *BlockingIndex) GobDecode(data []byte) error {
	decodedData := gobBlockingIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	bi.Mu.Lock() // Ensure exclusive access during decoding
	defer bi.Mu.Unlock()

	bi.Blocks = decodedData.Blocks
	if bi.Blocks == nil {
		bi.Blocks = make(map[Scheme]map[string][]int)
	}
	for _, scheme := range Schemes {
		if bi.Blocks[scheme] == nil {
			bi.Blocks[scheme] = make(map[string][]int)
		}
	}
	return nil
}
