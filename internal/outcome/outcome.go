// Package outcome records how each per-row unit of work ended.
package outcome

import "sync"

// Outcome names the terminal state of a single unit of work.
type Outcome string

// Supported unit outcomes.
const (
	Written Outcome = Outcome("written")
	NoInfo  Outcome = Outcome("no_info")
	Failed  Outcome = Outcome("failed")
	Skipped Outcome = Outcome("skipped")
)

// Ordered lists every outcome in report order.
var Ordered = []Outcome{Written, NoInfo, Failed, Skipped}

// Tally counts unit outcomes for a batch. The zero value is ready to use.
type Tally struct {
	mutex  sync.Mutex
	counts map[Outcome]int
}

// Record increments the counter for the provided outcome.
func (tally *Tally) Record(unitOutcome Outcome) {
	tally.mutex.Lock()
	defer tally.mutex.Unlock()
	if tally.counts == nil {
		tally.counts = make(map[Outcome]int, len(Ordered))
	}
	tally.counts[unitOutcome]++
}

// Count returns how many units ended with the provided outcome.
func (tally *Tally) Count(unitOutcome Outcome) int {
	tally.mutex.Lock()
	defer tally.mutex.Unlock()
	return tally.counts[unitOutcome]
}

// Total returns the number of recorded units.
func (tally *Tally) Total() int {
	tally.mutex.Lock()
	defer tally.mutex.Unlock()
	total := 0
	for _, count := range tally.counts {
		total += count
	}
	return total
}
