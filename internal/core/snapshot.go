package core

// Snapshot is the immutable view of one user's records handed to the engine
// for a single computation pass. The storage layer assembles it; nothing in
// the engine mutates it.
type Snapshot struct {
	Transactions []Transaction
	Categories   []Category
	Goals        []Goal
	Loans        []Loan
}

// CategoryIndex maps category id to the category record. Built once per
// snapshot so calculators do lookups instead of repeated linear scans, and so
// the unknown-category fallback lives in one place.
type CategoryIndex map[string]Category

// Index builds the category index for the snapshot.
func (s Snapshot) Index() CategoryIndex {
	idx := make(CategoryIndex, len(s.Categories))
	for _, c := range s.Categories {
		idx[c.ID] = c
	}
	return idx
}

// Lookup resolves a transaction's category name: the live category if it
// still exists, otherwise the denormalized name carried on the transaction.
func (idx CategoryIndex) Lookup(t Transaction) string {
	if c, ok := idx[t.CategoryID]; ok {
		return c.Name
	}
	if t.Category != "" {
		return t.Category
	}
	return "Unknown"
}
