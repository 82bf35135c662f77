package export

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/storeorders/internal/reshape"
	"github.com/ginjaninja78/storeorders/internal/summary"
	"github.com/ginjaninja78/storeorders/internal/types"
)

var runTime = time.Date(2024, 5, 17, 14, 5, 0, 0, time.UTC)

func testPackage(t *testing.T) *Package {
	t.Helper()

	headers := []string{"Hmk Kod", "Hmk Ürün Açıklama", "7684 M", "8373 M", "8105 MM", "TOPLAM"}
	rows := []types.Row{
		{types.Text("A"), types.Text("D1"), types.Number(75)},
		{types.Text("B"), types.Missing(), types.Number(0), types.Number(0), types.Number(500)},
		{types.Text("C"), types.Text("D3"), types.Number(225), types.Number(550), types.Number(100)},
	}
	c := reshape.Classify(headers, reshape.DefaultBoundaryLabel)
	schema := &types.Schema{ProductCodeIndex: 0, DescriptionIndex: 1, Stores: c.Columns, StoreStart: c.Start, Boundary: c.Boundary}

	res, err := reshape.Reshape("siparis_mayis", rows, schema, reshape.NewAggregates())
	require.NoError(t, err)

	return NewPackage(res.Records, summary.New(res), runTime)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(testPackage(t), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetOrders, SheetSummary, SheetStores, SheetProducts}, f.GetSheetList())

	orders, err := f.GetRows(SheetOrders)
	require.NoError(t, err)
	require.Len(t, orders, 6)
	assert.Equal(t, OrderColumns, orders[0])
	assert.Equal(t, "siparis_mayis", orders[1][0])
	assert.Equal(t, "", orders[1][1])
	assert.Equal(t, "7684", orders[1][2])
	assert.Equal(t, "A", orders[1][5])
	assert.Equal(t, "D1", orders[1][6])
	assert.Equal(t, "75", orders[1][7])
	assert.Equal(t, "", orders[2][6], "missing description is written blank")

	summaryRows, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Metrik", "Değer"},
		{"Toplam Mağaza", "3"},
		{"Toplam Ürün", "3"},
		{"Toplam Miktar", "1450"},
		{"İşlem Tarihi", "17.05.2024 14:05"},
	}, summaryRows)

	stores, err := f.GetRows(SheetStores)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Mağaza Kodu", "Toplam Miktar"},
		{"8105", "600"},
		{"8373", "550"},
		{"7684", "300"},
	}, stores)

	products, err := f.GetRows(SheetProducts)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Ürün Kodu", "Ürün Açıklama", "Toplam Miktar"},
		{"C", "D3", "875"},
		{"B", "", "500"},
		{"A", "D1", "75"},
	}, products)
}

func TestWriteRejectsEmptyPackage(t *testing.T) {
	dir := t.TempDir()
	empty := &Package{}

	xlsxPath := filepath.Join(dir, "out.xlsx")
	assert.ErrorIs(t, WriteXLSX(empty, xlsxPath), ErrNoData)
	assert.NoFileExists(t, xlsxPath)

	dbPath := filepath.Join(dir, "out.db")
	assert.ErrorIs(t, WriteSQLite(context.Background(), empty, dbPath), ErrNoData)
	assert.NoFileExists(t, dbPath)

	assert.ErrorIs(t, WriteXLSX(nil, xlsxPath), ErrNoData)
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	ctx := context.Background()
	require.NoError(t, WriteSQLite(ctx, testPackage(t), path))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count, sum int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*), SUM(quantity) FROM orders`).Scan(&count, &sum))
	assert.Equal(t, 5, count)
	assert.Equal(t, 1450, sum)

	var store string
	var total int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT store_code, total FROM store_totals WHERE rank = 1`).Scan(&store, &total))
	assert.Equal(t, "8105", store)
	assert.Equal(t, 600, total)

	var desc string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT description FROM product_totals WHERE product_code = 'B'`).Scan(&desc))
	assert.Equal(t, "", desc)

	var processedAt string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT value FROM summary WHERE metric = 'İşlem Tarihi'`).Scan(&processedAt))
	assert.Equal(t, "17.05.2024 14:05", processedAt)
}

func TestOrderRow(t *testing.T) {
	row := OrderRow(types.OutputRecord{BatchID: "b", StoreCode: "798", ProductCode: "P", Description: "d", Quantity: 12})

	require.Len(t, row, len(OrderColumns))
	assert.Equal(t, "b", row[0])
	assert.Nil(t, row[1])
	assert.Equal(t, "798", row[2])
	assert.Equal(t, "P", row[5])
	assert.Equal(t, "d", row[6])
	assert.Equal(t, 12, row[7])
	assert.Nil(t, row[10])
}
