package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/amelie/internal/catalog"
	"github.com/Simplici0/amelie/internal/costmodel"
	"github.com/Simplici0/amelie/internal/db"
	"github.com/Simplici0/amelie/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	database := openMigrated(t)
	ctx := context.Background()
	baseline := costmodel.DefaultBaseline()
	want := baseline.CapEx.Len() + baseline.OpEx.Len()

	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, database, baseline)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != want {
				t.Fatalf("expected %d inserts in first run, got %d", want, stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 || stats.Skipped != want {
			t.Fatalf("expected 0 inserts in iteration %d, got %+v", i, stats)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM cost_items WHERE book = 'capex'`, 8)
	assertCount(t, database, `SELECT COUNT(*) FROM cost_items WHERE book = 'opex'`, 13)

	loaded, err := catalog.Load(ctx, database)
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	if !loaded.Equal(baseline) {
		t.Fatalf("loaded catalog differs from seed: capex=%v opex=%v", loaded.CapEx.Categories(), loaded.OpEx.Categories())
	}
}

func TestRunKeepsStoredAmounts(t *testing.T) {
	database := openMigrated(t)
	ctx := context.Background()

	if _, err := Run(ctx, database, costmodel.DefaultBaseline()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if _, err := database.Exec(`UPDATE cost_items SET amount = '99' WHERE book = 'opex' AND category = 'Labor'`); err != nil {
		t.Fatalf("update labor: %v", err)
	}
	if _, err := Run(ctx, database, costmodel.DefaultBaseline()); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	opex, err := catalog.LoadBook(ctx, database, catalog.BookOpEx)
	if err != nil {
		t.Fatalf("LoadBook: %v", err)
	}
	labor, _ := opex.Get("Labor")
	if labor.String() != "99" {
		t.Fatalf("labor=%s, want stored 99", labor)
	}
}

func openMigrated(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "seed-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func assertCount(t *testing.T, database *sql.DB, query string, expected int) {
	t.Helper()

	var count int
	if err := database.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
