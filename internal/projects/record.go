package projects

import "strings"

// Record is the common shape every source row is normalized into.
type Record struct {
	Name        string
	Description string
	Website     string
}

// DirectoryListing is one row scraped from the public project directory.
type DirectoryListing struct {
	Image       string
	Name        string
	Link        string
	Description string
	Website     string
}

// HasWebsite reports whether the record carries a non-empty website.
func (record Record) HasWebsite() bool {
	return len(record.Website) > 0
}

// IdentityKey returns the lower-cased website, or the lower-cased name when the website is empty.
//
// A record with neither value yields the empty key and collapses with every
// other such record during deduplication.
func (record Record) IdentityKey() string {
	if record.HasWebsite() {
		return strings.ToLower(record.Website)
	}
	return strings.ToLower(record.Name)
}

// Actionable reports whether downstream crawling steps can process the record.
func (record Record) Actionable() bool {
	return len(strings.TrimSpace(record.Name)) > 0 && len(strings.TrimSpace(record.Website)) > 0
}

// ActionableRows keeps the records that carry both a name and a website, preserving order.
func ActionableRows(records []Record) []Record {
	actionableRecords := make([]Record, 0, len(records))
	for _, record := range records {
		if !record.Actionable() {
			continue
		}
		actionableRecords = append(actionableRecords, record)
	}
	return actionableRecords
}
