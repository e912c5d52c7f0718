package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxicli/internal/cleaning"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "out.csv")
	w := NewCSVWriter(nil)

	err := w.WriteCSV(path, WriteOptions{
		Headers:   []string{"zone", "fare"},
		Records:   [][]string{{"Astoria", "12.50"}, {"Harlem", "8.00"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "expected UTF-8 BOM prefix")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(content, "\xEF\xBB\xBF")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"zone", "fare"}, rows[0])
	assert.Equal(t, []string{"Astoria", "12.50"}, rows[1])
}

func TestWriteTable_RearrangesColumns(t *testing.T) {
	table := cleaning.NewTable([]string{"VendorID", "fare_amount", "PU_datetime"})
	table.Rows = []cleaning.Row{
		{"VendorID": "1", "fare_amount": 12.5, "PU_datetime": "2025-01-03 10:00:00"},
	}

	path := filepath.Join(t.TempDir(), "cleaned.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteTable(path, table, []string{"PU_datetime"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"PU_datetime", "VendorID", "fare_amount"}, rows[0])
	assert.Equal(t, []string{"2025-01-03 10:00:00", "1", "12.5"}, rows[1])
}

func TestWriteTable_StreamsLargeTables(t *testing.T) {
	table := cleaning.NewTable([]string{"PU_Zone", "fare_amount"})
	table.Rows = make([]cleaning.Row, streamThreshold+1)
	for i := range table.Rows {
		table.Rows[i] = cleaning.Row{"PU_Zone": "Astoria", "fare_amount": float64(i)}
	}

	path := filepath.Join(t.TempDir(), "cleaned.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteTable(path, table, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "expected UTF-8 BOM prefix")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(content, "\xEF\xBB\xBF")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, streamThreshold+2)
	assert.Equal(t, []string{"PU_Zone", "fare_amount"}, rows[0])
	assert.Equal(t, []string{"Astoria", "0"}, rows[1])
	assert.Equal(t, []string{"Astoria", "50000"}, rows[len(rows)-1])
}

func TestStreamWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.csv")
	w := NewCSVWriter(nil)

	sw, err := w.CreateStreamWriter(path, []string{"a", "b"})
	require.NoError(t, err)

	require.NoError(t, sw.WriteRecord([]string{"1", "2"}))
	require.NoError(t, sw.WriteRecord([]string{"3", "4"}))
	require.NoError(t, sw.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"3", "4"}, rows[2])
}
