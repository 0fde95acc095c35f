package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/asdine/storm/v3"
	"github.com/mdouchement/notepad/internal/model"
	"github.com/mdouchement/notepad/pkg/stormcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) string {
	t.Helper()

	dbfile := filepath.Join(t.TempDir(), "notepad.db")

	codec, err := stormcodec.Lookup("")
	require.NoError(t, err)

	db, err := storm.Open(dbfile, storm.Codec(codec))
	require.NoError(t, err)
	defer db.Close()

	node := db.From("notes")
	require.NoError(t, node.Save(model.NewNote("groceries", "milk")))
	require.NoError(t, node.Save(model.NewNote("ideas", "")))
	require.NoError(t, node.Save(model.NewNote("todo", "call mom")))

	return dbfile
}

func defaults() options {
	return options{
		codec:      stormcodec.Default,
		collection: "notes",
	}
}

func TestRun_Count(t *testing.T) {
	dbfile := setup(t)

	var out bytes.Buffer
	err := run(&out, dbfile, "SELECT count(*) FROM notes", defaults())
	require.NoError(t, err)
	assert.Equal(t, "Opening "+dbfile+"\nCount: 3\n", out.String())

	out.Reset()
	err = run(&out, dbfile, "SELECT count(*) FROM notes WHERE `Key` LIKE '^gro'", defaults())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Count: 1\n")
}

func TestRun_List(t *testing.T) {
	dbfile := setup(t)

	var out bytes.Buffer
	err := run(&out, dbfile, "SELECT Details FROM notes WHERE `Key` = 'groceries'", defaults())
	require.NoError(t, err)
	assert.Equal(t, "Opening "+dbfile+"\n"+`[
  {
    "Details": "milk"
  }
]
`, out.String())

	out.Reset()
	err = run(&out, dbfile, "SELECT `Key` FROM notes ORDER BY `Key` DESC LIMIT 2", defaults())
	require.NoError(t, err)
	assert.Equal(t, "Opening "+dbfile+"\n"+`[
  {
    "Key": "todo"
  },
  {
    "Key": "ideas"
  }
]
`, out.String())

	out.Reset()
	err = run(&out, dbfile, "SELECT * FROM notes WHERE `Key` = 'todo'", defaults())
	require.NoError(t, err)
	assert.Equal(t, "Opening "+dbfile+"\n"+`[
  {
    "Details": "call mom",
    "Key": "todo"
  }
]
`, out.String())
}

func TestRun_Empty(t *testing.T) {
	dbfile := setup(t)

	var out bytes.Buffer
	err := run(&out, dbfile, "SELECT * FROM notes WHERE `Key` = 'missing'", defaults())
	require.NoError(t, err)
	assert.Equal(t, "Opening "+dbfile+"\n[]\n", out.String())
}

func TestRun_Litter(t *testing.T) {
	dbfile := setup(t)

	opts := defaults()
	opts.litter = true

	var out bytes.Buffer
	err := run(&out, dbfile, "SELECT `Key` FROM notes WHERE `Key` = 'ideas'", opts)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"Key"`)
	assert.Contains(t, out.String(), `"ideas"`)
	assert.NotContains(t, out.String(), `"Details"`)
}

func TestRun_Errors(t *testing.T) {
	dbfile := setup(t)

	var out bytes.Buffer
	err := run(&out, dbfile, "SELECT * FROM users", defaults())
	assert.EqualError(t, err, "unknown tablename: users")

	err = run(&out, dbfile, "DROP TABLE notes", defaults())
	assert.Error(t, err)

	opts := defaults()
	opts.codec = "gob"
	err = run(&out, dbfile, "SELECT * FROM notes", opts)
	assert.EqualError(t, err, "unsupported codec: gob")
}
