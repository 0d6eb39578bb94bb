// Package catalog reads the baseline CapEx and OpEx line items from the
// SQLite cost catalog.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/amelie/internal/costmodel"
)

// Book identifies which mapping a cost item belongs to.
type Book string

const (
	BookCapEx Book = "capex"
	BookOpEx  Book = "opex"
)

// ErrEmptyCatalog is returned when a book has no rows, typically because
// the seed never ran.
var ErrEmptyCatalog = errors.New("cost catalog is empty")

// ParseBook accepts "capex" or "opex".
func ParseBook(s string) (Book, error) {
	switch Book(s) {
	case BookCapEx, BookOpEx:
		return Book(s), nil
	default:
		return "", fmt.Errorf("unknown cost book %q", s)
	}
}

// Title is the heading used for the book's breakdown.
func (b Book) Title() string {
	if b == BookCapEx {
		return "CapEx Breakdown"
	}
	return "OpEx Breakdown"
}

// Mapping selects the book's mapping from s.
func (b Book) Mapping(s costmodel.Snapshot) costmodel.CostMapping {
	if b == BookCapEx {
		return s.CapEx
	}
	return s.OpEx
}

// Load reads both books and returns them as the baseline snapshot.
func Load(ctx context.Context, db *sql.DB) (costmodel.Snapshot, error) {
	capex, err := LoadBook(ctx, db, BookCapEx)
	if err != nil {
		return costmodel.Snapshot{}, err
	}
	opex, err := LoadBook(ctx, db, BookOpEx)
	if err != nil {
		return costmodel.Snapshot{}, err
	}
	return costmodel.Snapshot{CapEx: capex, OpEx: opex}, nil
}

// LoadBook reads one book ordered by position.
func LoadBook(ctx context.Context, db *sql.DB, book Book) (costmodel.CostMapping, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT category, amount
		FROM cost_items
		WHERE book = ?
		ORDER BY position, id
	`, string(book))
	if err != nil {
		return costmodel.CostMapping{}, fmt.Errorf("query %s items: %w", book, err)
	}
	defer rows.Close()

	items := make([]costmodel.Item, 0)
	for rows.Next() {
		var it costmodel.Item
		if err := rows.Scan(&it.Category, &it.Amount); err != nil {
			return costmodel.CostMapping{}, fmt.Errorf("scan %s item: %w", book, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return costmodel.CostMapping{}, fmt.Errorf("iterate %s items: %w", book, err)
	}
	if len(items) == 0 {
		return costmodel.CostMapping{}, fmt.Errorf("%w: no %s items", ErrEmptyCatalog, book)
	}

	m, err := costmodel.NewCostMapping(items...)
	if err != nil {
		return costmodel.CostMapping{}, fmt.Errorf("build %s mapping: %w", book, err)
	}
	return m, nil
}

// Insert adds one item to a book at the given position. It reports false
// when the category already exists in that book.
func Insert(ctx context.Context, tx *sql.Tx, book Book, position int, category string, amount decimal.Decimal) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO cost_items (book, category, amount, position)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(book, category) DO NOTHING
	`, string(book), category, amount.String(), position)
	if err != nil {
		return false, fmt.Errorf("insert %s item %q: %w", book, category, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert %s item %q: %w", book, category, err)
	}
	return affected > 0, nil
}
