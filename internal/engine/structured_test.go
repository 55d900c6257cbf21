package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructuredRecords_Array(t *testing.T) {
	table, err := ParseStructuredRecords(`[{"a":1,"b":"x"},{"a":2,"b":"y"}]`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, Number(1), table.Rows[0]["a"])
	assert.Equal(t, Text("y"), table.Rows[1]["b"])
}

func TestParseStructuredRecords_SingleRecordWrapped(t *testing.T) {
	table, err := ParseStructuredRecords(`{"name":"solo","n":3}`)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "n"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, Number(3), table.Rows[0]["n"])
}

func TestParseStructuredRecords_KeyOrderFollowsDocument(t *testing.T) {
	table, err := ParseStructuredRecords(`[{"zeta":1,"alpha":2,"mid":3}]`)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, table.Columns)
}

func TestParseStructuredRecords_ColumnsFromFirstRecordOnly(t *testing.T) {
	table, err := ParseStructuredRecords(`[{"a":1},{"a":2,"b":5},{"c":9}]`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, table.Columns)
	require.Len(t, table.Rows, 3)
	_, hasB := table.Rows[1].Get("b")
	assert.False(t, hasB, "keys outside the first record are dropped")
	_, hasA := table.Rows[2].Get("a")
	assert.False(t, hasA, "missing keys stay missing")
	assert.Empty(t, table.Rows[2])
}

func TestParseStructuredRecords_ValueKinds(t *testing.T) {
	table, err := ParseStructuredRecords(`{"n":1.25,"s":"7","t":true,"f":false,"z":null,"o":{"k":1},"l":[1,2]}`)
	require.NoError(t, err)

	row := table.Rows[0]
	assert.Equal(t, Number(1.25), row["n"])
	assert.Equal(t, Text("7"), row["s"], "JSON strings are not coerced")
	assert.Equal(t, Bool(true), row["t"])
	assert.Equal(t, Bool(false), row["f"])
	assert.Equal(t, Null(), row["z"])
	assert.Equal(t, Text(`{"k":1}`), row["o"])
	assert.Equal(t, Text(`[1,2]`), row["l"])
}

func TestParseStructuredRecords_NonObjectElements(t *testing.T) {
	table, err := ParseStructuredRecords(`[{"a":1}, 5, "x"]`)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, table.Columns)
	require.Len(t, table.Rows, 3)
	assert.Empty(t, table.Rows[1])
	assert.Empty(t, table.Rows[2])
}

func TestParseStructuredRecords_EmptyArray(t *testing.T) {
	table, err := ParseStructuredRecords(`[]`)
	require.NoError(t, err)

	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestParseStructuredRecords_Invalid(t *testing.T) {
	inputs := []string{
		`[{"a":1},{"a":`,
		`{"a":}`,
		`not json`,
		`{"a":1}}`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			table, err := ParseStructuredRecords(in)
			require.Error(t, err)
			assert.Nil(t, table)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, FormatStructured, pe.Format)
		})
	}
}
