package database

import (
	"context"

	"github.com/mdouchement/notepad/internal/model"
	"github.com/pkg/errors"
)

// Supported backends.
const (
	BackendStorm = "storm"
	BackendRedis = "redis"
)

// DefaultCollection is the collection where notes are stored.
const DefaultCollection = "notes"

type (
	// A Client can interacts with the database.
	// It is safe for concurrent use.
	Client interface {
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool
		// IsAlreadyExists returns true if err is an already exists error.
		IsAlreadyExists(err error) bool

		NoteInteraction
	}

	// A NoteInteraction defines all the methods used to interact with a note record(s).
	NoteInteraction interface {
		// FindNote returns the note for the given key.
		FindNote(ctx context.Context, key string) (*model.Note, error)
		// FindNoteKeys returns the keys of all the notes.
		FindNoteKeys(ctx context.Context) ([]string, error)
		// CreateNote inserts the given note.
		// It fails with an already exists error if the key is taken.
		CreateNote(ctx context.Context, note *model.Note) error
		// SaveNote inserts or replaces the given note.
		SaveNote(ctx context.Context, note *model.Note) error
		// DeleteNote deletes the note for the given key, if any.
		DeleteNote(ctx context.Context, key string) error
		// RenameNote atomically moves the note stored at previous to key.
		// It fails with a not found error if previous does not exist
		// and with an already exists error if key is owned by another note.
		RenameNote(ctx context.Context, previous, key string) error
	}

	// Credentials describes how to reach the document store.
	Credentials struct {
		Backend    string
		Collection string
		// Storm
		Path  string
		Codec string
		// Redis
		URL string
	}
)

// Open returns a new Client for the given credentials.
func Open(cred Credentials) (Client, error) {
	switch cred.Backend {
	case BackendStorm, "":
		return StormOpen(cred)
	case BackendRedis:
		return RedisOpen(cred)
	default:
		return nil, errors.Errorf("unsupported backend: %s", cred.Backend)
	}
}

func collection(cred Credentials) string {
	if cred.Collection == "" {
		return DefaultCollection
	}
	return cred.Collection
}
