package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/amelie/internal/catalog"
	"github.com/Simplici0/amelie/internal/costmodel"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// Run writes the baseline line items into the cost catalog in an idempotent
// way. Existing categories keep their stored amount.
func Run(ctx context.Context, db *sql.DB, baseline costmodel.Snapshot) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureBook(ctx, tx, catalog.BookCapEx, baseline.CapEx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	if err := ensureBook(ctx, tx, catalog.BookOpEx, baseline.OpEx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureBook(ctx context.Context, tx *sql.Tx, book catalog.Book, m costmodel.CostMapping, stats *Stats) error {
	for i, it := range m.Items() {
		inserted, err := catalog.Insert(ctx, tx, book, i, it.Category, it.Amount)
		if err != nil {
			return err
		}
		if inserted {
			stats.Inserts++
		} else {
			stats.Skipped++
		}
	}
	return nil
}
