package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_Comma(t *testing.T) {
	file, err := ParseCSV([]byte("Date,Item,Total\n01/07/2025,GitHub,11.00\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Item", "Total"}, file.Headers)
	require.Len(t, file.Rows, 1)
	assert.Equal(t, 1, file.Rows[0].Num)
	assert.Equal(t, "GitHub", file.Rows[0].Cell("Item"))
}

func TestParseCSV_Tab(t *testing.T) {
	file, err := ParseCSV([]byte("Date\tItem\tTotal\n01/07/2025\tGitHub\t11.00\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Item", "Total"}, file.Headers)
	require.Len(t, file.Rows, 1)
}

func TestParseCSV_Semicolon(t *testing.T) {
	file, err := ParseCSV([]byte("Date;Item;Total\n01/07/2025;GitHub;11,00\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Item", "Total"}, file.Headers)
}

func TestParseCSV_BOM(t *testing.T) {
	file, err := ParseCSV([]byte("\xef\xbb\xbfDate,Item,Total\n01/07/2025,GitHub,11.00\n"))
	require.NoError(t, err)
	assert.Equal(t, "Date", file.Headers[0])
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV([]byte(""))
	assert.Error(t, err)

	_, err = ParseCSV([]byte("   \n  \n"))
	assert.Error(t, err)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	file, err := ParseCSV([]byte("Date,Item,Total\n"))
	require.NoError(t, err)
	assert.Empty(t, file.Rows)
}

func TestParseCSV_BlankRowsKeepNumbering(t *testing.T) {
	file, err := ParseCSV([]byte("Date,Item,Total\n01/07/2025,GitHub,11.00\n,,\n02/07/2025,AWS,22.00\n"))
	require.NoError(t, err)
	require.Len(t, file.Rows, 2)
	assert.Equal(t, 1, file.Rows[0].Num)
	assert.Equal(t, 3, file.Rows[1].Num)
}

func TestParseCSV_ShortRow(t *testing.T) {
	file, err := ParseCSV([]byte("Date,Item,Total\n01/07/2025,GitHub\n"))
	require.NoError(t, err)
	require.Len(t, file.Rows, 1)
	assert.Equal(t, "", file.Rows[0].Cell("Total"))
}

func TestRawRow_CellTrims(t *testing.T) {
	file, err := ParseCSV([]byte("Date,Item\n01/07/2025,  GitHub  \n"))
	require.NoError(t, err)
	assert.Equal(t, "GitHub", file.Rows[0].Cell("Item"))
	assert.Equal(t, "", file.Rows[0].Cell("Missing"))
}
