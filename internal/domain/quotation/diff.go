package quotation

// FieldChange is one changed field between the before and after snapshots of
// a history entry. Changes are derived at read time and never stored.
type FieldChange struct {
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// SnapshotDiff compares the before/after snapshots field by field.
// An unchanged entry (pure status change) yields an empty slice.
func SnapshotDiff(p SnapshotPair) []FieldChange {
	var changes []FieldChange

	text := []struct {
		field         string
		before, after string
	}{
		{"customerName", p.Before.CustomerName, p.After.CustomerName},
		{"customerEmail", p.Before.CustomerEmail, p.After.CustomerEmail},
		{"customerPhone", p.Before.CustomerPhone, p.After.CustomerPhone},
		{"customerAddress", p.Before.CustomerAddress, p.After.CustomerAddress},
	}
	for _, f := range text {
		if f.before != f.after {
			changes = append(changes, FieldChange{Field: f.field, Before: f.before, After: f.after})
		}
	}

	if !p.Before.Total.Equal(p.After.Total) {
		changes = append(changes, FieldChange{
			Field:  "total",
			Before: p.Before.Total.StringFixed(2),
			After:  p.After.Total.StringFixed(2),
		})
	}

	return changes
}

// HistoryView is a history entry with its derived field changes, as served by
// the status-history endpoint.
type HistoryView struct {
	HistoryEntry
	Changes []FieldChange `json:"changes"`
}

// HistoryWithDiffs projects the quotation's audit log into the read model.
func HistoryWithDiffs(q *Quotation) []HistoryView {
	views := make([]HistoryView, 0, len(q.History))
	for _, entry := range q.History {
		views = append(views, HistoryView{
			HistoryEntry: entry,
			Changes:      SnapshotDiff(entry.Snapshot),
		})
	}
	return views
}
