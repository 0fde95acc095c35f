package model

// A Note represents a database record.
// Key is both the document identifier and the displayed title.
type Note struct {
	Key     string `json:"key"     msgpack:"key"     storm:"id"`
	Details string `json:"details" msgpack:"details"`
}

// NewNote returns a new Note for the given title and details.
// The key is derived from the title with NoteKey.
func NewNote(title, details string) *Note {
	return &Note{
		Key:     NoteKey(title),
		Details: details,
	}
}
