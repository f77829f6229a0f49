package rowguard

import "fmt"

// matchOwnerColumn reports which of the rule's owner columns in row holds
// the actor's ID, if any. A row matches when any one column matches.
func matchOwnerColumn(actorID string, ownerColumns []string, row map[string]any) (string, bool) {
	if len(row) == 0 {
		return "", false
	}
	for _, col := range ownerColumns {
		if ownerValueMatches(actorID, row[col]) {
			return col, true
		}
	}
	return "", false
}

// ownerValueMatches compares one column value against the actor's ID.
// Column values arrive as whatever the store or caller put in the row:
// strings, typed IDs, byte slices, numbers. Both sides are normalized to
// strings; nil and empty values never match.
func ownerValueMatches(actorID string, value any) bool {
	if actorID == "" || value == nil {
		return false
	}
	switch v := value.(type) {
	case string:
		return v == actorID
	case []byte:
		return string(v) == actorID
	case fmt.Stringer:
		return v.String() == actorID
	default:
		return fmt.Sprint(v) == actorID
	}
}
