package service_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/mdouchement/notepad/internal/database"
	"github.com/mdouchement/notepad/internal/model"
	"github.com/mdouchement/notepad/internal/nperror"
	"github.com/mdouchement/notepad/internal/server/service"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*service.Notes, database.Client) {
	db, err := database.StormOpen(database.Credentials{
		Path: filepath.Join(t.TempDir(), "notepad.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	return service.NewNotes(db), db
}

func TestCreateThenGet(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	key, err := notes.Create(ctx, "My Note", "hello", false)
	require.NoError(t, err)
	assert.Equal(t, "MyNote", key)

	details, err := notes.Get(ctx, "MyNote")
	require.NoError(t, err)
	assert.Equal(t, "hello", details)

	// Lookup keys are not normalized.
	_, err = notes.Get(ctx, "My Note")
	assert.Equal(t, http.StatusNotFound, nperror.StatusCode(err))
}

func TestCreate_Conflict(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	_, err := notes.Create(ctx, "A B", "first", false)
	require.NoError(t, err)

	_, err = notes.Create(ctx, "AB", "second", false)
	assert.Equal(t, http.StatusConflict, nperror.StatusCode(err))
	assert.EqualError(t, err, "Note already exists")

	details, err := notes.Get(ctx, "AB")
	require.NoError(t, err)
	assert.Equal(t, "first", details)

	key, err := notes.Create(ctx, " A  B ", "third", true)
	require.NoError(t, err)
	assert.Equal(t, "AB", key)

	details, err = notes.Get(ctx, "AB")
	require.NoError(t, err)
	assert.Equal(t, "third", details)
}

func TestCreate_EmptyTitle(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := notes.Create(ctx, title, "details", false)
		assert.Equal(t, http.StatusBadRequest, nperror.StatusCode(err))
	}

	keys, err := notes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestDeleteThenGet(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	_, err := notes.Create(ctx, "k", "v", false)
	require.NoError(t, err)

	require.NoError(t, notes.Delete(ctx, "k"))
	require.NoError(t, notes.Delete(ctx, "k"))

	_, err = notes.Get(ctx, "k")
	assert.Equal(t, http.StatusNotFound, nperror.StatusCode(err))
	assert.EqualError(t, err, "Note not found")
}

func TestRename(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	_, err := notes.Create(ctx, "A B", "x", false)
	require.NoError(t, err)

	key, err := notes.Rename(ctx, "AB", "C D")
	require.NoError(t, err)
	assert.Equal(t, "CD", key)

	_, err = notes.Get(ctx, "AB")
	assert.Equal(t, http.StatusNotFound, nperror.StatusCode(err))

	details, err := notes.Get(ctx, "CD")
	require.NoError(t, err)
	assert.Equal(t, "x", details)

	// Same key
	key, err = notes.Rename(ctx, "CD", "C D")
	require.NoError(t, err)
	assert.Equal(t, "CD", key)

	details, err = notes.Get(ctx, "CD")
	require.NoError(t, err)
	assert.Equal(t, "x", details)
}

func TestRename_Missing(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	_, err := notes.Create(ctx, "Other", "y", false)
	require.NoError(t, err)

	_, err = notes.Rename(ctx, "Missing", "anything")
	require.NoError(t, err)

	keys, err := notes.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Other"}, keys)
}

func TestRename_Conflict(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	_, err := notes.Create(ctx, "A", "a", false)
	require.NoError(t, err)
	_, err = notes.Create(ctx, "B", "b", false)
	require.NoError(t, err)

	_, err = notes.Rename(ctx, "A", "B")
	assert.Equal(t, http.StatusConflict, nperror.StatusCode(err))

	_, err = notes.Rename(ctx, "A", " ")
	assert.Equal(t, http.StatusBadRequest, nperror.StatusCode(err))

	details, err := notes.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "a", details)

	details, err = notes.Get(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "b", details)
}

func TestList(t *testing.T) {
	notes, _ := setup(t)
	ctx := context.Background()

	_, err := notes.Create(ctx, "A", "", false)
	require.NoError(t, err)
	_, err = notes.Create(ctx, "B", "", false)
	require.NoError(t, err)
	require.NoError(t, notes.Delete(ctx, "A"))

	keys, err := notes.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B"}, keys)
}

func TestStoreUnavailable(t *testing.T) {
	notes := service.NewNotes(&brokenClient{})
	ctx := context.Background()

	tests := []struct {
		operation string
		message   string
		call      func() error
	}{
		{
			operation: service.OperationList,
			message:   "Error fetching notes",
			call: func() error {
				_, err := notes.List(ctx)
				return err
			},
		},
		{
			operation: service.OperationCreate,
			message:   "Error creating note",
			call: func() error {
				_, err := notes.Create(ctx, "title", "details", false)
				return err
			},
		},
		{
			operation: service.OperationCreate,
			message:   "Error creating note",
			call: func() error {
				_, err := notes.Create(ctx, "title", "details", true)
				return err
			},
		},
		{
			operation: service.OperationGet,
			message:   "Error fetching note",
			call: func() error {
				_, err := notes.Get(ctx, "key")
				return err
			},
		},
		{
			operation: service.OperationRename,
			message:   "Error editing note",
			call: func() error {
				_, err := notes.Rename(ctx, "key", "title")
				return err
			},
		},
		{
			operation: service.OperationDelete,
			message:   "Error deleting note",
			call: func() error {
				return notes.Delete(ctx, "key")
			},
		},
	}

	for _, test := range tests {
		err := test.call()
		require.Error(t, err)

		nperr, ok := err.(*nperror.Error)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, nperr.HTTPCode)
		assert.Equal(t, test.operation, nperr.Operation)
		assert.Equal(t, test.message, nperr.Message)
		assert.True(t, errors.Is(err, errUnreachable))
	}
}

//
// A document store that cannot be reached.
//

var errUnreachable = errors.New("unreachable")

type brokenClient struct{}

func (*brokenClient) Close() error { return nil }
func (*brokenClient) IsNotFound(err error) bool { return false }
func (*brokenClient) IsAlreadyExists(err error) bool { return false }

func (*brokenClient) FindNote(context.Context, string) (*model.Note, error) {
	return nil, errors.Wrap(errUnreachable, "could not find note")
}

func (*brokenClient) FindNoteKeys(context.Context) ([]string, error) {
	return nil, errors.Wrap(errUnreachable, "could not find notes")
}

func (*brokenClient) CreateNote(context.Context, *model.Note) error {
	return errors.Wrap(errUnreachable, "could not save note")
}

func (*brokenClient) SaveNote(context.Context, *model.Note) error {
	return errors.Wrap(errUnreachable, "could not save note")
}

func (*brokenClient) DeleteNote(context.Context, string) error {
	return errors.Wrap(errUnreachable, "could not delete note")
}

func (*brokenClient) RenameNote(context.Context, string, string) error {
	return errors.Wrap(errUnreachable, "could not rename note")
}
