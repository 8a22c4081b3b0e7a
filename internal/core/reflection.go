package core

import "strings"

// DeriveReflectionFlags resolves the legacy flags for a transaction,
// falling back to the old isWaste boolean for the regret marker when no
// explicit flags are stored.
func DeriveReflectionFlags(tx Transaction) ReflectionFlags {
	if tx.Reflection != nil {
		return *tx.Reflection
	}
	return ReflectionFlags{Regret: tx.IsWaste}
}

// NormalizeReflectionTagIDs maps a transaction onto the tag model. When
// the transaction already carries tag ids those are authoritative;
// otherwise a best-effort set is derived from the legacy flags by
// name-matching against the supplied tag definitions. fallbackTagID, when
// non-empty, stands in for the regret tag if no tag name matches.
func NormalizeReflectionTagIDs(tx Transaction, tags []ReflectionTag, fallbackTagID string) []string {
	if len(tx.ReflectionTagIDs) > 0 {
		return tx.ReflectionTagIDs
	}

	lookup := func(needle string) string {
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag.Name), strings.ToLower(needle)) {
				return tag.ID
			}
		}
		return ""
	}

	legacy := DeriveReflectionFlags(tx)
	var ids []string
	if legacy.Regret {
		if id := lookup("regret"); id != "" {
			ids = append(ids, id)
		} else if fallbackTagID != "" {
			ids = append(ids, fallbackTagID)
		}
	}
	if legacy.Waste {
		if id := lookup("waste"); id != "" {
			ids = append(ids, id)
		}
	}
	if legacy.Save {
		if id := lookup("save"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// HasReflectionTag reports whether the transaction carries the given tag,
// under either the tag model or the derived legacy flags.
func HasReflectionTag(tx Transaction, tagID string, tags []ReflectionTag, fallbackTagID string) bool {
	for _, id := range NormalizeReflectionTagIDs(tx, tags, fallbackTagID) {
		if id == tagID {
			return true
		}
	}
	return false
}

// IsRegretted reports whether a transaction counts toward the wasted
// subtotal. A non-empty tag set is authoritative: any regret or waste tag
// marks the transaction. Without tags the legacy flags decide.
func IsRegretted(tx Transaction, tags []ReflectionTag) bool {
	if len(tx.ReflectionTagIDs) > 0 {
		for _, id := range tx.ReflectionTagIDs {
			for _, tag := range tags {
				if tag.ID != id {
					continue
				}
				lower := strings.ToLower(tag.Name)
				if strings.Contains(lower, "regret") || strings.Contains(lower, "waste") {
					return true
				}
			}
		}
		return false
	}
	flags := DeriveReflectionFlags(tx)
	return flags.Regret || flags.Waste
}
