package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Simplici0/amelie/internal/config"
	"github.com/Simplici0/amelie/internal/costmodel"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd(config.Config{})
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTotals(t *testing.T) {
	out, err := run(t, "totals")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	for _, expected := range []string{"153,000 EUR", "288.5 EUR/batch"} {
		if !strings.Contains(out, expected) {
			t.Fatalf("expected output to contain %q, got:\n%s", expected, out)
		}
	}
}

func TestApplyCompounds(t *testing.T) {
	out, err := run(t, "apply", "Lower Utility Costs", "Lower Utility Costs")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(out, "72.2") {
		t.Fatalf("expected compounded labor 72.2, got:\n%s", out)
	}
}

func TestApplyUnknownScenario(t *testing.T) {
	_, err := run(t, "apply", "nonexistent")
	if !errors.Is(err, costmodel.ErrScenarioNotFound) {
		t.Fatalf("expected ErrScenarioNotFound, got %v", err)
	}
}

func TestShowWithScenario(t *testing.T) {
	out, err := run(t, "show", "--scenario", "Upper Utility Costs")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "UPPER UTILITY COSTS") || !strings.Contains(out, "88") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestExportToStdout(t *testing.T) {
	out, err := run(t, "export", "--book", "opex")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out, "Category,Cost (EUR)\n") || !strings.Contains(out, "Total,288.5\n") {
		t.Fatalf("unexpected csv:\n%s", out)
	}
}

func TestChartWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capex.png")
	if _, err := run(t, "chart", "--book", "capex", "--out", path); err != nil {
		t.Fatalf("chart: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Fatalf("expected PNG header, got %q", raw[:min(len(raw), 8)])
	}
}

func TestChartRejectsUnknownExtension(t *testing.T) {
	if _, err := run(t, "chart", "--out", filepath.Join(t.TempDir(), "capex.gif")); err == nil {
		t.Fatal("expected an error for .gif output")
	}
}

func TestAssumptionsFallback(t *testing.T) {
	out, err := run(t, "assumptions", "Base Utility Costs")
	if err != nil {
		t.Fatalf("assumptions: %v", err)
	}
	if !strings.Contains(out, "General Assumptions") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
