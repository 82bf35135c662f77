package converter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/ginjaninja78/storeorders/internal/config"
	"github.com/ginjaninja78/storeorders/internal/export"
	"github.com/ginjaninja78/storeorders/internal/validation"
)

var fixedNow = time.Date(2024, 5, 17, 14, 5, 0, 0, time.UTC)

var orderMatrix = [][]interface{}{
	{"Hmk Kod", "Hmk Ürün Açıklama", "7684 M", "8373 M", "8105 MM", "TOPLAM", "NOT"},
	{"A", "D1", 75, nil, nil, 75},
	{"B", nil, 0, 0, 500, 500},
	{"C", "D3", 225, 550, 100, 875, 999},
	{nil, "orphan", 40, 40, 40},
}

func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func testConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(root, "output")
	cfg.Output.ArchiveDir = filepath.Join(root, "archive")
	return cfg
}

func newConverter(t *testing.T, path string, cfg *config.Config) *Converter {
	return New(path, cfg,
		WithLogger(zaptest.NewLogger(t)),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestRunWritesWorkbook(t *testing.T) {
	root := t.TempDir()
	input := writeWorkbook(t, root, "siparis_mayis.xlsx", orderMatrix)
	cfg := testConfig(t, root)

	result := newConverter(t, input, cfg).Run(context.Background(), false)
	require.NoError(t, result.Error)
	require.True(t, result.Success)

	assert.Equal(t, filepath.Join(root, "output", "siparis_mayis_donusturulmus_20240517_1405.xlsx"), result.OutputFile)
	assert.FileExists(t, result.OutputFile)
	assert.FileExists(t, input, "input stays put without archival")
	assert.Empty(t, result.SQLiteFile)

	assert.Equal(t, ProcessingStats{
		RowsRead:          4,
		ProductsProcessed: 3,
		RowsSkipped:       1,
		StoreColumns:      3,
		RecordsCreated:    5,
		TotalQuantity:     1450,
	}, result.Stats)

	require.NotNil(t, result.Analysis)
	assert.Equal(t, "siparis_mayis", result.Analysis.BatchID)
	assert.Equal(t, "siparis_mayis", result.Analysis.Reshape.Records[0].BatchID)

	f, err := excelize.OpenFile(result.OutputFile)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetOrders)
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestRunWithSQLiteAndArchive(t *testing.T) {
	root := t.TempDir()
	input := writeWorkbook(t, root, "siparis.xlsx", orderMatrix)
	cfg := testConfig(t, root)
	cfg.Output.SQLitePath = filepath.Join(root, "siparis.db")
	cfg.Output.ArchiveInput = true

	result := newConverter(t, input, cfg).Run(context.Background(), false)
	require.NoError(t, result.Error)

	assert.FileExists(t, cfg.Output.SQLitePath)
	assert.Equal(t, cfg.Output.SQLitePath, result.SQLiteFile)
	assert.Equal(t, filepath.Join(root, "archive", "siparis.xlsx"), result.ArchivedTo)
	assert.NoFileExists(t, input)
}

func TestRunDryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	input := writeWorkbook(t, root, "siparis.xlsx", orderMatrix)
	cfg := testConfig(t, root)
	cfg.Output.ArchiveInput = true

	result := newConverter(t, input, cfg).Run(context.Background(), true)
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Empty(t, result.OutputFile)
	assert.Equal(t, 5, result.Stats.RecordsCreated)
	assert.NoDirExists(t, cfg.Output.Dir)
	assert.FileExists(t, input)
}

func TestRunFailsWithoutStoreColumns(t *testing.T) {
	root := t.TempDir()
	input := writeWorkbook(t, root, "bad.xlsx", [][]interface{}{
		{"Hmk Kod", "Hmk Ürün Açıklama", "TOPLAM"},
		{"A", "D1", 10},
	})

	result := newConverter(t, input, testConfig(t, root)).Run(context.Background(), false)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, validation.ErrNoStoreColumns)
	assert.Nil(t, result.Analysis)
}

func TestRunFailsWithoutProductCode(t *testing.T) {
	root := t.TempDir()
	input := writeWorkbook(t, root, "bad.xlsx", [][]interface{}{
		{"Kod", "7684 M"},
		{"A", 10},
	})

	result := newConverter(t, input, testConfig(t, root)).Run(context.Background(), false)
	assert.ErrorIs(t, result.Error, validation.ErrMissingField)
}

func TestRunFailsWhenNothingQualifies(t *testing.T) {
	root := t.TempDir()
	input := writeWorkbook(t, root, "small.xlsx", [][]interface{}{
		{"Hmk Kod", "7684 M", "8373 M"},
		{"A", 9, 0},
		{"B", "abc", nil},
	})
	cfg := testConfig(t, root)

	result := newConverter(t, input, cfg).Run(context.Background(), false)
	assert.ErrorIs(t, result.Error, export.ErrNoData)
	assert.Equal(t, 2, result.Stats.ProductsProcessed)
	assert.NoDirExists(t, cfg.Output.Dir)
}

func TestRunCSVInput(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "siparis.csv")
	require.NoError(t, os.WriteFile(input, []byte(
		"Hmk Kod;Hmk Ürün Açıklama;798 MM;5776 M;TOPLAM\n"+
			"P1;Raf;12,0;;12\n"+
			"P2;Kanca;1 234;10;1244\n"), 0o644))

	cfg := testConfig(t, root)
	cfg.Input.CSVDelimiter = ";"

	analysis, err := newConverter(t, input, cfg).Analyze()
	require.NoError(t, err)

	recs := analysis.Reshape.Records
	require.Len(t, recs, 3)
	assert.Equal(t, "798", recs[0].StoreCode)
	assert.Equal(t, 12, recs[0].Quantity)
	assert.Equal(t, 1234, recs[1].Quantity)
	assert.Equal(t, "5776", recs[2].StoreCode)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := New(path, nil).Load()
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestInspect(t *testing.T) {
	root := t.TempDir()
	input := writeWorkbook(t, root, "siparis.xlsx", orderMatrix)

	ins, err := newConverter(t, input, nil).Inspect()
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", ins.Sheet)
	assert.Equal(t, 4, ins.DataRows)
	assert.Equal(t, 0, ins.ProductCodeIndex)
	assert.Equal(t, 1, ins.DescriptionIndex)
	assert.Equal(t, 2, ins.Classification.Start)
	assert.Equal(t, 5, ins.Classification.Boundary)
	assert.Equal(t, []string{"M", "MM"}, ins.Classification.StoreTypes())
}
