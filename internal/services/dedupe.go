package services

import "finflow/internal/core"

// Dedupe partitions a feed batch against the set of already-persisted
// external identifiers. The partition is stable: toInsert preserves the
// input order. Entries without an external identifier have no stable
// key and are always inserted; that is policy, not an oversight.
func Dedupe(candidates []core.RawTransaction, existing map[string]struct{}) (toInsert []core.RawTransaction, skipped int) {
	toInsert = make([]core.RawTransaction, 0, len(candidates))
	for _, c := range candidates {
		if c.ExternalID != "" {
			if _, seen := existing[c.ExternalID]; seen {
				skipped++
				continue
			}
		}
		toInsert = append(toInsert, c)
	}
	return toInsert, skipped
}
