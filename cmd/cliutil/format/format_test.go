package format

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	ID string `json:"id"`
}

func (r result) Fields() []Field {
	return []Field{{Name: "Snapshot", Value: r.ID}}
}

func TestParseOutputFormat(t *testing.T) {
	f, err := ParseOutputFormat("")
	require.NoError(t, err)
	assert.Equal(t, TableFormat, f)

	f, err = ParseOutputFormat("json")
	require.NoError(t, err)
	assert.Equal(t, JSONFormat, f)

	_, err = ParseOutputFormat("yaml")
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(JSONFormat, &buf).Format(result{ID: "0x1"}))

	var out result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "0x1", out.ID)
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(TableFormat, &buf).Format(result{ID: "0x1"}))
	assert.Contains(t, buf.String(), "Snapshot")
	assert.Contains(t, buf.String(), "0x1")

	err := NewFormatter(TableFormat, &buf).Format(42)
	assert.ErrorContains(t, err, "not supported")
}
