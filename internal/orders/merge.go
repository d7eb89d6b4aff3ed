package orders

import "sort"

// MergeHistories reconciles a client's locally kept order history with the
// server's copy. Orders are identified by order number; when both sides have
// the same number the server entry wins, since the server may have advanced
// the status after the client cached its copy. The merged list is sorted
// newest first; entries with identical timestamps fall back to order number,
// descending, so the ordering is stable across calls.
func MergeHistories(local, remote []Summary) []Summary {
	seen := make(map[string]struct{}, len(remote))
	merged := make([]Summary, 0, len(local)+len(remote))

	for _, entry := range remote {
		if entry.OrderNumber == "" {
			continue
		}
		if _, dup := seen[entry.OrderNumber]; dup {
			continue
		}
		seen[entry.OrderNumber] = struct{}{}
		merged = append(merged, entry)
	}

	for _, entry := range local {
		if entry.OrderNumber == "" {
			continue
		}
		if _, dup := seen[entry.OrderNumber]; dup {
			continue
		}
		seen[entry.OrderNumber] = struct{}{}
		merged = append(merged, entry)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.After(merged[j].CreatedAt)
		}
		return merged[i].OrderNumber > merged[j].OrderNumber
	})

	return merged
}
