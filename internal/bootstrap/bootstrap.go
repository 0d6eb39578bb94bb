// Package bootstrap builds the cost model the server and CLI share: the
// baseline comes from the SQLite catalog (or the built-in defaults), the
// scenarios from the built-ins plus an optional YAML file.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/Simplici0/amelie/internal/catalog"
	"github.com/Simplici0/amelie/internal/costmodel"
	"github.com/Simplici0/amelie/internal/db"
	"github.com/Simplici0/amelie/internal/migrations"
	"github.com/Simplici0/amelie/internal/scenarios"
	"github.com/Simplici0/amelie/internal/seed"
)

// Options selects where the model comes from. An empty DBPath skips the
// catalog and uses the built-in baseline.
type Options struct {
	DBPath        string
	ScenariosFile string
}

// Baseline opens the catalog at dbPath, migrates and seeds it, and loads the
// baseline snapshot. The database is closed before returning.
func Baseline(ctx context.Context, dbPath string) (costmodel.Snapshot, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return costmodel.Snapshot{}, err
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		return costmodel.Snapshot{}, err
	}

	stats, err := seed.Run(ctx, database, costmodel.DefaultBaseline())
	if err != nil {
		return costmodel.Snapshot{}, fmt.Errorf("seed cost catalog: %w", err)
	}
	if stats.Inserts > 0 {
		log.Printf("seeded cost catalog: %d items inserted", stats.Inserts)
	}

	baseline, err := catalog.Load(ctx, database)
	if err != nil {
		return costmodel.Snapshot{}, fmt.Errorf("load cost catalog: %w", err)
	}
	return baseline, nil
}

// Model returns a model with the built-in scenarios and those read from
// opts.ScenariosFile. File scenarios replace built-ins of the same name.
func Model(ctx context.Context, opts Options) (*costmodel.Model, error) {
	baseline := costmodel.DefaultBaseline()
	if opts.DBPath != "" {
		var err error
		if baseline, err = Baseline(ctx, opts.DBPath); err != nil {
			return nil, err
		}
	}

	m := costmodel.NewModel(baseline)
	for _, sc := range costmodel.DefaultScenarios() {
		if err := m.AddScenario(sc); err != nil {
			return nil, fmt.Errorf("register scenario %q: %w", sc.Name, err)
		}
	}

	if opts.ScenariosFile == "" {
		return m, nil
	}
	extra, err := scenarios.Load(opts.ScenariosFile)
	if err != nil {
		return nil, err
	}
	for _, sc := range extra {
		if err := m.AddScenario(sc); err != nil {
			return nil, fmt.Errorf("register scenario %q: %w", sc.Name, err)
		}
	}
	log.Printf("loaded %d scenarios from %s", len(extra), opts.ScenariosFile)
	return m, nil
}
