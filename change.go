package sdkdoc

// Status classifies an identifier against the fingerprint store.
type Status int

const (
	StatusUnchanged Status = iota
	StatusNew
	StatusChanged
)

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusChanged:
		return "changed"
	default:
		return "unchanged"
	}
}

// NeedsProcessing reports whether s belongs in the change set.
func (s Status) NeedsProcessing() bool {
	return s == StatusNew || s == StatusChanged
}

// Classification is the status of one identifier occurrence.
type Classification struct {
	ID     string
	Status Status
	// Stored is the digest found in the store, unknown for new identifiers.
	Stored Digest
	// Fresh is the digest of the newly processed content, if any.
	Fresh Digest
}

// Classify returns the status of every identifier in ids, in order.
// Identifiers missing from store are New. Stored identifiers are Unchanged
// unless fresh holds a known digest for them that differs from the stored
// one, in which case they are Changed. Without fresh digests this is a pure
// presence check. Duplicates are classified independently.
func Classify(ids []string, store Fingerprints, fresh map[string]Digest) []Classification {
	out := make([]Classification, 0, len(ids))
	for _, id := range ids {
		c := Classification{ID: id, Fresh: fresh[id]}
		stored, ok := store[id]
		switch {
		case !ok:
			c.Status = StatusNew
		case c.Fresh.Known() && c.Fresh != stored:
			c.Status = StatusChanged
			c.Stored = stored
		default:
			c.Status = StatusUnchanged
			c.Stored = stored
		}
		out = append(out, c)
	}
	return out
}

// SelectForReprocessing returns the identifiers of ids that are New or
// Changed relative to store, preserving input order.
func SelectForReprocessing(ids []string, store Fingerprints) []string {
	selected := make([]string, 0, len(ids))
	for _, c := range Classify(ids, store, nil) {
		if c.Status.NeedsProcessing() {
			selected = append(selected, c.ID)
		}
	}
	return selected
}

// CountStatuses tallies classifications by status.
func CountStatuses(cs []Classification) map[Status]int {
	counts := make(map[Status]int, 3)
	for _, c := range cs {
		counts[c.Status]++
	}
	return counts
}
