package jsonmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndToJSON(t *testing.T) {
	m, err := Parse([]byte(`{"id": "urn:uuid:1234", "count": 3, "tags": ["a", "b"]}`))
	require.NoError(t, err)

	id, ok := m.GetString("id")
	assert.True(t, ok)
	assert.Equal(t, "urn:uuid:1234", id)

	count, ok := m.GetFloat("count")
	assert.True(t, ok)
	assert.Equal(t, float64(3), count)

	tags, ok := m.GetSlice("tags")
	assert.True(t, ok)
	assert.Equal(t, []interface{}{"a", "b"}, tags)

	data, err := m.ToJSON()
	require.NoError(t, err)
	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{invalid}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
}

func TestGetMap(t *testing.T) {
	m := JSONMap{
		"plain":  map[string]interface{}{"id": "a"},
		"typed":  JSONMap{"id": "b"},
		"scalar": "not a map",
	}

	plain, ok := m.GetMap("plain")
	require.True(t, ok)
	id, _ := plain.GetString("id")
	assert.Equal(t, "a", id)

	typed, ok := m.GetMap("typed")
	require.True(t, ok)
	id, _ = typed.GetString("id")
	assert.Equal(t, "b", id)

	_, ok = m.GetMap("scalar")
	assert.False(t, ok)
	_, ok = m.GetMap("absent")
	assert.False(t, ok)
}

func TestCopyIsIndependent(t *testing.T) {
	original := JSONMap{"name": "before", "nested": map[string]interface{}{"k": "v"}}
	copied := original.Copy()

	original["name"] = "after"
	name, _ := copied.GetString("name")
	assert.Equal(t, "before", name)

	assert.Nil(t, JSONMap(nil).Copy())
}
