package service

import (
	"context"

	"github.com/mdouchement/notepad/internal/database"
	"github.com/mdouchement/notepad/internal/model"
	"github.com/mdouchement/notepad/internal/nperror"
)

// Operations, used as error context.
const (
	OperationList   = "list"
	OperationCreate = "create"
	OperationGet    = "get"
	OperationRename = "rename"
	OperationDelete = "delete"
)

var messages = map[string]string{
	OperationList:   "Error fetching notes",
	OperationCreate: "Error creating note",
	OperationGet:    "Error fetching note",
	OperationRename: "Error editing note",
	OperationDelete: "Error deleting note",
}

// Notes manages the notes stored in the database.
type Notes struct {
	db database.Client
}

// NewNotes returns a new Notes service.
func NewNotes(db database.Client) *Notes {
	return &Notes{db: db}
}

// List returns the keys of all the notes.
func (s *Notes) List(ctx context.Context) ([]string, error) {
	keys, err := s.db.FindNoteKeys(ctx)
	if err != nil {
		return nil, unavailable(OperationList, err)
	}
	return keys, nil
}

// Create stores a new note under the key derived from title and returns that key.
// An existing note is only replaced when overwrite is true.
func (s *Notes) Create(ctx context.Context, title, details string, overwrite bool) (string, error) {
	note := model.NewNote(title, details)
	if note.Key == "" {
		return "", nperror.BadRequest(nperror.MessageNoTitle)
	}

	if overwrite {
		if err := s.db.SaveNote(ctx, note); err != nil {
			return "", unavailable(OperationCreate, err)
		}
		return note.Key, nil
	}

	if err := s.db.CreateNote(ctx, note); err != nil {
		if s.db.IsAlreadyExists(err) {
			return "", nperror.Conflict(nperror.MessageConflict)
		}
		return "", unavailable(OperationCreate, err)
	}
	return note.Key, nil
}

// Get returns the details of the note stored at key.
// The key is used as is.
func (s *Notes) Get(ctx context.Context, key string) (string, error) {
	note, err := s.db.FindNote(ctx, key)
	if err != nil {
		if s.db.IsNotFound(err) {
			return "", nperror.NotFound(nperror.MessageNotFound)
		}
		return "", unavailable(OperationGet, err)
	}
	return note.Details, nil
}

// Rename moves the note stored at previous to the key derived from title and returns that key.
// Renaming a missing note does nothing.
func (s *Notes) Rename(ctx context.Context, previous, title string) (string, error) {
	key := model.NoteKey(title)
	if key == "" {
		return "", nperror.BadRequest(nperror.MessageNoTitle)
	}

	if err := s.db.RenameNote(ctx, previous, key); err != nil {
		switch {
		case s.db.IsNotFound(err):
			return key, nil
		case s.db.IsAlreadyExists(err):
			return "", nperror.Conflict(nperror.MessageConflict)
		}
		return "", unavailable(OperationRename, err)
	}
	return key, nil
}

// Delete removes the note stored at key, if any.
func (s *Notes) Delete(ctx context.Context, key string) error {
	if err := s.db.DeleteNote(ctx, key); err != nil {
		return unavailable(OperationDelete, err)
	}
	return nil
}

func unavailable(operation string, err error) error {
	return nperror.Unavailable(operation, messages[operation], err)
}
