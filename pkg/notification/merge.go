package notification

import "sort"

// DefaultRetentionCap is the number of notifications retained per user when
// no explicit cap is configured.
const DefaultRetentionCap = 3

// MergeAndCap returns a user's retained log after applying one upsert:
// a retained notification with the same ID is replaced, otherwise the
// incoming one is inserted; the result is stable-sorted by timestamp
// descending and truncated to capacity. A capacity <= 0 disables truncation.
//
// The function is pure. Storage adapters either call it directly or delegate
// the same merge to an equivalent atomic operation of their backend.
func MergeAndCap(existing []Notification, incoming Notification, capacity int) []Notification {
	merged := make([]Notification, 0, len(existing)+1)
	replaced := false
	for _, n := range existing {
		if n.ID == incoming.ID {
			merged = append(merged, incoming)
			replaced = true
			continue
		}
		merged = append(merged, n)
	}
	if !replaced {
		merged = append(merged, incoming)
	}

	// Stable sort keeps the relative order of equal timestamps consistent
	// within a snapshot, which the contract requires.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})

	if capacity > 0 && len(merged) > capacity {
		merged = merged[:capacity]
	}
	return merged
}
