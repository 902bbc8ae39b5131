// Package reputation implements the additive reputation accumulator: a
// (sum, count) pair per (organization, subject) that is commutative and
// associative to combine (spec.md §3, §4.3, property P3).
package reputation

// Entry is one subject's accumulated reliability estimates within a single
// organization's scope.
type Entry struct {
	Sum   float64
	Count int
}

// Record folds in one new reliability estimate.
func (e Entry) Record(estimate float64) Entry {
	return Entry{Sum: e.Sum + estimate, Count: e.Count + 1}
}

// Combine merges two entries accumulated independently. Combine is
// commutative and associative: Map merging (e.g. across parallel sweep
// runs) never depends on merge order (property P3).
func (e Entry) Combine(other Entry) Entry {
	return Entry{Sum: e.Sum + other.Sum, Count: e.Count + other.Count}
}

// Score returns the entry's average, or defaultReputation if it has never
// recorded an estimate (spec.md §4.3).
func (e Entry) Score(defaultReputation float64) float64 {
	if e.Count == 0 {
		return defaultReputation
	}
	return e.Sum / float64(e.Count)
}

// key scopes a subject's reputation to the organization that observed it
// (property P7: organizations never see each other's reputation data for
// the same subject).
type key struct {
	Organization string
	Subject      string
}

// Map is the full reputation accumulator: every (organization, subject)
// pair's Entry.
type Map struct {
	entries           map[key]Entry
	defaultReputation float64
}

// NewMap constructs an empty reputation Map. defaultReputation is returned
// by Score for any subject with no recorded estimates yet.
func NewMap(defaultReputation float64) *Map {
	return &Map{entries: make(map[key]Entry), defaultReputation: defaultReputation}
}

// Record folds estimate into (organization, subject)'s entry.
func (m *Map) Record(organization, subject string, estimate float64) {
	k := key{Organization: organization, Subject: subject}
	m.entries[k] = m.entries[k].Record(estimate)
}

// Score returns (organization, subject)'s current average, or the map's
// default reputation if it has no recorded estimates.
func (m *Map) Score(organization, subject string) float64 {
	return m.entries[key{Organization: organization, Subject: subject}].Score(m.defaultReputation)
}

// HasEstimate reports whether (organization, subject) has at least one
// recorded estimate, as opposed to only ever having been defaulted.
func (m *Map) HasEstimate(organization, subject string) bool {
	return m.entries[key{Organization: organization, Subject: subject}].Count > 0
}

// PassesFloor reports whether subject's score within organization is at
// least floor.
func (m *Map) PassesFloor(organization, subject string, floor float64) bool {
	return m.Score(organization, subject) >= floor
}

// AveragePassesFloor reports whether the mean score of subjects within
// organization is at least floor. It is the organization-level gate applied
// before a new interaction is admitted (spec.md §4.4): an organization
// checks its own average standing, not any one member's.
func (m *Map) AveragePassesFloor(organization string, subjects []string, floor float64) bool {
	if len(subjects) == 0 {
		return true
	}
	total := 0.0
	for _, s := range subjects {
		total += m.Score(organization, s)
	}
	return total/float64(len(subjects)) >= floor
}

// Merge combines other into m in place, using Entry.Combine for every
// overlapping key. Merge order never affects the result (property P3).
func (m *Map) Merge(other *Map) {
	for k, e := range other.entries {
		m.entries[k] = m.entries[k].Combine(e)
	}
}

// Entries returns a copy of the map's raw (organization, subject) -> Entry
// contents, keyed as "organization/subject", for persistence (runstore) and
// test assertions.
func (m *Map) Entries() map[string]Entry {
	out := make(map[string]Entry, len(m.entries))
	for k, e := range m.entries {
		out[k.Organization+"/"+k.Subject] = e
	}
	return out
}
