package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_JSON(t *testing.T) {
	row := Row{
		"n": Number(2.5),
		"s": Text("hi"),
		"b": Bool(true),
		"z": Null(),
	}

	out, err := json.Marshal(row)
	require.NoError(t, err)

	assert.JSONEq(t, `{"n":2.5,"s":"hi","b":true,"z":null}`, string(out))
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "1200", Number(1200).String())
	assert.Equal(t, "0.25", Number(0.25).String())
	assert.Equal(t, "false", Bool(false).String())
	assert.Equal(t, "", Null().String())
	assert.Equal(t, "abc", Text("abc").String())
}

func TestValue_ZeroIsEmptyText(t *testing.T) {
	var v Value
	assert.Equal(t, KindText, v.Kind())
	assert.False(t, v.IsNumber())
	_, ok := v.Float()
	assert.False(t, ok)
}

func TestTable_Head(t *testing.T) {
	table := ParseDelimitedText("a\n1\n2\n3", ",")

	assert.Len(t, table.Head(2), 2)
	assert.Len(t, table.Head(10), 3)
	assert.Len(t, table.Head(-1), 3)
	assert.Empty(t, table.Head(0))
}

func TestValue_JSONRoundTrip(t *testing.T) {
	in := []Row{{"n": Number(3), "s": Text("x"), "b": Bool(false), "z": Null()}}

	out, err := json.Marshal(in)
	require.NoError(t, err)

	var back []Row
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, in, back)
}
