package structs_test

import (
	"testing"

	"github.com/mdouchement/notepad/pkg/structs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Key     string
	Details string
	hidden  string
}

func TestGetField(t *testing.T) {
	r := &record{Key: "groceries", Details: "milk", hidden: "x"}

	v, err := structs.GetField(r, "Key")
	require.NoError(t, err)
	assert.Equal(t, "groceries", v)

	v, err = structs.GetField(*r, "Details")
	require.NoError(t, err)
	assert.Equal(t, "milk", v)

	_, err = structs.GetField(r, "Title")
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	names, err := structs.Fields(&record{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Key", "Details"}, names)
}

func TestProject(t *testing.T) {
	r := &record{Key: "groceries", Details: "milk"}

	p, err := structs.Project(r, "Key")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Key": "groceries"}, p)

	p, err = structs.Project(r)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Key": "groceries", "Details": "milk"}, p)

	_, err = structs.Project(r, "Key", "Title")
	assert.Error(t, err)
}
