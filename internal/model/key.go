package model

import "strings"

// NoteKey returns the canonical document key of the given title.
// Every whitespace is removed, so "My Note" becomes "MyNote".
// It does not reject empty results.
func NoteKey(title string) string {
	return strings.Join(strings.Fields(title), "")
}
