package database

import (
	"context"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/notepad/internal/model"
	"github.com/mdouchement/notepad/pkg/stormcodec"
	"github.com/pkg/errors"
)

type strm struct {
	db   *storm.DB
	node storm.Node
}

func stormDB(cred Credentials) (*storm.DB, error) {
	if cred.Path == "" {
		return nil, errors.New("storm database path not found")
	}

	codec, err := stormcodec.Lookup(cred.Codec)
	if err != nil {
		return nil, err
	}

	db, err := storm.Open(cred.Path, storm.Codec(codec))
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}
	return db, nil
}

// StormInit initializes Storm database.
func StormInit(cred Credentials) error {
	db, err := stormDB(cred)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.From(collection(cred)).Init(&model.Note{})
	return errors.Wrap(err, "could not init note bucket")
}

// StormReIndex reindex Storm database.
func StormReIndex(cred Credentials) error {
	db, err := stormDB(cred)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.From(collection(cred)).ReIndex(&model.Note{})
	return errors.Wrap(err, "could not ReIndex notes")
}

// StormOpen returns a new Storm database connection.
func StormOpen(cred Credentials) (Client, error) {
	db, err := stormDB(cred)
	if err != nil {
		return nil, err
	}

	return &strm{
		db:   db,
		node: db.From(collection(cred)),
	}, nil
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// IsAlreadyExists returns true if err is an already exists error.
func (c *strm) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == storm.ErrAlreadyExists
}

// FindNote returns the note for the given key.
func (c *strm) FindNote(_ context.Context, key string) (*model.Note, error) {
	var note model.Note
	if err := c.node.One("Key", key, &note); err != nil {
		return nil, errors.Wrap(err, "could not find note")
	}
	return &note, nil
}

// FindNoteKeys returns the keys of all the notes.
func (c *strm) FindNoteKeys(_ context.Context) ([]string, error) {
	notes := make([]*model.Note, 0)
	err := c.node.All(&notes)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find notes")
	}

	keys := make([]string, 0, len(notes))
	for _, note := range notes {
		keys = append(keys, note.Key)
	}
	return keys, nil
}

// CreateNote inserts the given note.
func (c *strm) CreateNote(_ context.Context, note *model.Note) error {
	tx, err := c.node.Begin(true)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}
	defer tx.Rollback()

	if err = c.ensureFree(tx, note.Key); err != nil {
		return errors.Wrap(err, "could not create note")
	}

	if err = tx.Save(note); err != nil {
		return errors.Wrap(err, "could not save note")
	}

	return errors.Wrap(tx.Commit(), "could not commit note creation")
}

// SaveNote inserts or replaces the given note.
func (c *strm) SaveNote(_ context.Context, note *model.Note) error {
	return errors.Wrap(c.node.Save(note), "could not save note")
}

// DeleteNote deletes the note for the given key, if any.
func (c *strm) DeleteNote(_ context.Context, key string) error {
	err := c.node.DeleteStruct(&model.Note{Key: key})
	if err != nil && !c.IsNotFound(err) {
		return errors.Wrap(err, "could not delete note")
	}
	return nil
}

// RenameNote atomically moves the note stored at previous to key.
func (c *strm) RenameNote(_ context.Context, previous, key string) error {
	tx, err := c.node.Begin(true)
	if err != nil {
		return errors.Wrap(err, "could not begin transaction")
	}
	defer tx.Rollback()

	var note model.Note
	if err = tx.One("Key", previous, &note); err != nil {
		return errors.Wrap(err, "could not find note to rename")
	}

	if previous == key {
		return nil
	}

	if err = c.ensureFree(tx, key); err != nil {
		return errors.Wrap(err, "could not rename note")
	}

	if err = tx.DeleteStruct(&note); err != nil {
		return errors.Wrap(err, "could not delete renamed note")
	}

	note.Key = key
	if err = tx.Save(&note); err != nil {
		return errors.Wrap(err, "could not save renamed note")
	}

	return errors.Wrap(tx.Commit(), "could not commit note renaming")
}

// ensureFree returns storm.ErrAlreadyExists if a note is stored at key.
func (c *strm) ensureFree(tx storm.Node, key string) error {
	var existing model.Note
	err := tx.One("Key", key, &existing)
	if err == nil {
		return storm.ErrAlreadyExists
	}
	if !c.IsNotFound(err) {
		return err
	}
	return nil
}
