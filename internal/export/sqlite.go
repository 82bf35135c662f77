package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"
)

// =============================================================================
// SQLITE WRITER
// =============================================================================

// sqliteSchema creates the four tables. Blank template columns of the order
// sheet are not stored.
const sqliteSchema = `
CREATE TABLE orders (
	line         INTEGER PRIMARY KEY,
	batch_id     TEXT    NOT NULL,
	store_code   TEXT    NOT NULL,
	product_code TEXT    NOT NULL,
	description  TEXT    NOT NULL,
	quantity     INTEGER NOT NULL CHECK (quantity > 0)
);
CREATE TABLE summary (
	metric TEXT PRIMARY KEY,
	value  TEXT NOT NULL
);
CREATE TABLE store_totals (
	rank       INTEGER PRIMARY KEY,
	store_code TEXT    NOT NULL,
	total      INTEGER NOT NULL
);
CREATE TABLE product_totals (
	rank         INTEGER PRIMARY KEY,
	product_code TEXT    NOT NULL,
	description  TEXT    NOT NULL,
	total        INTEGER NOT NULL
);
CREATE INDEX orders_store_code ON orders (store_code);
CREATE INDEX orders_product_code ON orders (product_code);
`

// WriteSQLite writes the package into a fresh SQLite database at path. An
// existing file at path is replaced.
//
// RETURNS:
//   - ErrNoData when the package has no order lines. Nothing is written.
//   - An error if the database cannot be created or filled.
func WriteSQLite(ctx context.Context, pkg *Package, path string) (err error) {
	if err := pkg.check(); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close sqlite: %w", cerr)
		}
	}()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = insertAll(ctx, tx, pkg); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertAll(ctx context.Context, tx *sql.Tx, pkg *Package) error {
	orders, err := tx.PrepareContext(ctx,
		`INSERT INTO orders (line, batch_id, store_code, product_code, description, quantity) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare orders insert: %w", err)
	}
	defer orders.Close()

	for i, r := range pkg.Records {
		if _, err := orders.ExecContext(ctx, i+1, r.BatchID, r.StoreCode, r.ProductCode, r.Description, r.Quantity); err != nil {
			return fmt.Errorf("failed to insert order line %d: %w", i+1, err)
		}
	}

	for _, row := range SummaryRows(pkg.Metrics) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO summary (metric, value) VALUES (?, ?)`, row[0], fmt.Sprint(row[1])); err != nil {
			return fmt.Errorf("failed to insert summary: %w", err)
		}
	}

	for _, s := range pkg.Stores {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO store_totals (rank, store_code, total) VALUES (?, ?, ?)`, s.Rank, s.StoreCode, s.Total); err != nil {
			return fmt.Errorf("failed to insert store total %s: %w", s.StoreCode, err)
		}
	}

	for _, p := range pkg.Products {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_totals (rank, product_code, description, total) VALUES (?, ?, ?, ?)`,
			p.Rank, p.ProductCode, p.Description, p.Total); err != nil {
			return fmt.Errorf("failed to insert product total %s: %w", p.ProductCode, err)
		}
	}

	return nil
}
