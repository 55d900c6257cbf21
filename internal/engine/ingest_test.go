package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestHintForFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    Hint
		wantErr bool
	}{
		{name: "csv", file: "sales.csv", want: Hint{Format: FormatDelimited, Delimiter: ","}},
		{name: "uppercase csv", file: "SALES.CSV", want: Hint{Format: FormatDelimited, Delimiter: ","}},
		{name: "tsv", file: "dump.tsv", want: Hint{Format: FormatDelimited, Delimiter: "\t"}},
		{name: "json", file: "records.json", want: Hint{Format: FormatStructured}},
		{name: "xlsx", file: "book.xlsx", want: Hint{Format: FormatSpreadsheet}},
		{name: "txt unsupported", file: "notes.txt", wantErr: true},
		{name: "no extension", file: "README", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HintForFile(tt.file)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsParseError(err))
				assert.True(t, errors.Is(err, ErrUnsupportedFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIngest_Delimited(t *testing.T) {
	res, err := Ingest([]byte("name,score\nA,1\nB,3\n"), Hint{Format: FormatDelimited})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Table.RowCount())
	assert.Equal(t, 2, res.Summary.RowCount)
	assert.Equal(t, 2.0, res.Summary.Statistics["score"].Mean)
}

func TestIngest_StructuredFailureProducesNothing(t *testing.T) {
	res, err := Ingest([]byte(`[{"a":1},`), Hint{Format: FormatStructured})

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsParseError(err))
}

func TestIngest_EmptyPayload(t *testing.T) {
	for _, f := range []Format{FormatDelimited, FormatStructured, FormatSpreadsheet} {
		res, err := Ingest([]byte(" \n\t "), Hint{Format: f})
		require.Error(t, err, string(f))
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrEmptyPayload)
	}
}

func TestIngest_UnknownFormat(t *testing.T) {
	_, err := Ingest([]byte("a\n1"), Hint{Format: "yaml"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestIngest_SameInputSameResult(t *testing.T) {
	payload := []byte("a,b\n1,x\n2,y\n3,z")

	first, err := Ingest(payload, Hint{Format: FormatDelimited})
	require.NoError(t, err)
	second, err := Ingest(payload, Hint{Format: FormatDelimited})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestIngest_Spreadsheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"item", "qty"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"bolt", 12}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"nut", 30}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"washer"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := Ingest(buf.Bytes(), Hint{Format: FormatSpreadsheet})
	require.NoError(t, err)

	assert.Equal(t, []string{"item", "qty"}, res.Table.Columns)
	require.Len(t, res.Table.Rows, 3)
	assert.Equal(t, Text("bolt"), res.Table.Rows[0]["item"])
	assert.Equal(t, Number(12), res.Table.Rows[0]["qty"])
	_, hasQty := res.Table.Rows[2].Get("qty")
	assert.False(t, hasQty)
	assert.Equal(t, 2, res.Summary.Statistics["qty"].Count)
}

func TestIngest_SpreadsheetFormattedNumbers(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"amount"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 1234.5))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", 0.25))
	require.NoError(t, f.SetCellValue("Sheet1", "A4", 3))

	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	require.NoError(t, err)
	percent, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", thousands))
	require.NoError(t, f.SetCellStyle("Sheet1", "A3", "A3", percent))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res, err := Ingest(buf.Bytes(), Hint{Format: FormatSpreadsheet})
	require.NoError(t, err)

	assert.Equal(t, Number(1234.5), res.Table.Rows[0]["amount"])
	assert.Equal(t, Number(0.25), res.Table.Rows[1]["amount"])
	assert.Equal(t, Number(3), res.Table.Rows[2]["amount"])

	st := res.Summary.Statistics["amount"]
	assert.Equal(t, 3, st.Count)
	assert.Equal(t, 0.25, st.Min)
	assert.Equal(t, 1234.5, st.Max)
}

func TestParseSpreadsheet_NotAWorkbook(t *testing.T) {
	_, err := ParseSpreadsheet([]byte("definitely not a zip archive"))

	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FormatSpreadsheet, pe.Format)
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Format: FormatStructured, Reason: "invalid JSON"}
	assert.Equal(t, "parse structured: invalid JSON", err.Error())

	wrapped := &ParseError{Reason: "extension \".txt\"", Err: ErrUnsupportedFormat}
	assert.Equal(t, "parse error: extension \".txt\": unsupported file format", wrapped.Error())
}
