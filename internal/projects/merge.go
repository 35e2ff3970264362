package projects

import "strings"

// websiteIndex is an insertion-ordered mapping from lower-cased website to record.
type websiteIndex struct {
	orderedKeys []string
	values      map[string]Record
}

func newWebsiteIndex(records []Record) websiteIndex {
	index := websiteIndex{
		orderedKeys: make([]string, 0, len(records)),
		values:      make(map[string]Record, len(records)),
	}
	for _, record := range records {
		if !record.HasWebsite() {
			continue
		}
		websiteKey := strings.ToLower(record.Website)
		if _, exists := index.values[websiteKey]; !exists {
			index.orderedKeys = append(index.orderedKeys, websiteKey)
		}
		// a repeated key keeps its first position and takes the later record
		index.values[websiteKey] = record
	}
	return index
}

func (index websiteIndex) contains(websiteKey string) bool {
	_, exists := index.values[websiteKey]
	return exists
}

func (index websiteIndex) orderedValues() []Record {
	orderedRecords := make([]Record, 0, len(index.orderedKeys))
	for _, websiteKey := range index.orderedKeys {
		orderedRecords = append(orderedRecords, index.values[websiteKey])
	}
	return orderedRecords
}

// Merge combines two sources into the canonical list, giving the primary source priority.
//
// Records without a website are dropped before indexing. The combined list is
// the primary index values followed by the secondary index values whose
// website is unknown to the primary source, and is then passed through
// Deduplicate.
func Merge(primaryRecords []Record, secondaryRecords []Record) []Record {
	primaryIndex := newWebsiteIndex(primaryRecords)
	secondaryIndex := newWebsiteIndex(secondaryRecords)

	combinedRecords := primaryIndex.orderedValues()
	for _, websiteKey := range secondaryIndex.orderedKeys {
		if primaryIndex.contains(websiteKey) {
			continue
		}
		combinedRecords = append(combinedRecords, secondaryIndex.values[websiteKey])
	}

	return Deduplicate(combinedRecords)
}

// Deduplicate keeps the first record seen for every identity key, preserving order.
func Deduplicate(records []Record) []Record {
	seenKeys := make(map[string]struct{}, len(records))
	uniqueRecords := make([]Record, 0, len(records))
	for _, record := range records {
		identityKey := record.IdentityKey()
		if _, seen := seenKeys[identityKey]; seen {
			continue
		}
		seenKeys[identityKey] = struct{}{}
		uniqueRecords = append(uniqueRecords, record)
	}
	return uniqueRecords
}
