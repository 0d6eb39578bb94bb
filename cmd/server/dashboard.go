package main

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/amelie/internal/assumptions"
	"github.com/Simplici0/amelie/internal/catalog"
	"github.com/Simplici0/amelie/internal/chart"
	"github.com/Simplici0/amelie/internal/costmodel"
	"github.com/Simplici0/amelie/internal/report"
)

type server struct {
	model        *costmodel.Model
	templatesDir string
	// templates is nil in dev, where pages are parsed on every request.
	templates map[string]*template.Template
}

type baseViewData struct {
	ErrorMessage   string
	SuccessMessage string
}

type dashboardViewData struct {
	baseViewData
	Scenarios   []string
	Selected    string
	Applied     bool
	Assumptions template.HTML
	CapExTotal  string
	OpExTotal   string
	CapExRows   []report.Row
	OpExRows    []report.Row
	// Query carries the selection to chart and export links.
	Query template.URL
}

var pages = []string{"dashboard.html"}

func newServer(model *costmodel.Model, templatesDir string, dev bool) (*server, error) {
	s := &server{model: model, templatesDir: templatesDir}
	if dev {
		return s, nil
	}

	s.templates = make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := s.parseTemplate(page)
		if err != nil {
			return nil, err
		}
		s.templates[page] = t
	}
	return s, nil
}

// selection is the scenario a request points at, and the figures to show
// for it.
type selection struct {
	scenario costmodel.Scenario
	applied  bool
	snapshot costmodel.Snapshot
}

func (sel selection) query() string {
	v := url.Values{}
	v.Set("scenario", sel.scenario.Name)
	if sel.applied {
		v.Set("apply", "1")
	}
	return v.Encode()
}

// selectScenario resolves ?scenario= (default: first registered) and
// ?apply=1. Without apply the baseline figures are returned.
func (s *server) selectScenario(r *http.Request) (selection, error) {
	name := strings.TrimSpace(r.URL.Query().Get("scenario"))
	if name == "" {
		if names := s.model.ScenarioNames(); len(names) > 0 {
			name = names[0]
		}
	}

	sc, err := s.model.Scenario(name)
	if err != nil {
		return selection{snapshot: s.model.Baseline()}, err
	}

	sel := selection{scenario: sc, applied: r.URL.Query().Get("apply") == "1"}
	if !sel.applied {
		sel.snapshot = s.model.Baseline()
		return sel, nil
	}
	sel.snapshot, err = costmodel.Apply(s.model.Baseline(), sc)
	if err != nil {
		return selection{scenario: sc, snapshot: s.model.Baseline()}, err
	}
	return sel, nil
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, selErr := s.selectScenario(r)

	data := dashboardViewData{
		Scenarios: s.model.ScenarioNames(),
		Selected:  sel.scenario.Name,
		Applied:   sel.applied,
		Query:     template.URL(sel.query()),
	}

	status := http.StatusOK
	switch {
	case errors.Is(selErr, costmodel.ErrScenarioNotFound):
		status = http.StatusNotFound
		data.ErrorMessage = "Scenario not found: " + r.URL.Query().Get("scenario")
	case errors.Is(selErr, costmodel.ErrCategoryNotFound):
		status = http.StatusUnprocessableEntity
		data.ErrorMessage = selErr.Error()
	case selErr != nil:
		http.Error(w, "failed to apply scenario", http.StatusInternalServerError)
		return
	case sel.applied:
		data.SuccessMessage = "Applied " + sel.scenario.Name + "."
	}

	if sel.scenario.Name != "" {
		html, err := assumptions.HTML(sel.scenario)
		if err != nil {
			http.Error(w, "failed to render assumptions", http.StatusInternalServerError)
			return
		}
		data.Assumptions = html
	}

	totals := sel.snapshot.Totals()
	data.CapExTotal = report.FormatEUR(totals.CapEx)
	data.OpExTotal = report.FormatEUR(totals.OpEx)
	data.CapExRows = report.Table(sel.snapshot.CapEx)
	data.OpExRows = report.Table(sel.snapshot.OpEx)

	s.renderTemplate(w, status, "dashboard.html", data)
}

// splitFile parses "capex.png" style path parameters.
func splitFile(file string) (catalog.Book, string, error) {
	name, ext, ok := strings.Cut(file, ".")
	if !ok {
		return "", "", fmt.Errorf("missing extension in %q", file)
	}
	book, err := catalog.ParseBook(name)
	if err != nil {
		return "", "", err
	}
	return book, ext, nil
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	book, ext, err := splitFile(chi.URLParam(r, "file"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	format, err := chart.ParseFormat(ext)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	sel, err := s.selectScenario(r)
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := chart.Pie(&buf, book.Title(), book.Mapping(sel.snapshot), format); err != nil {
		if errors.Is(err, chart.ErrNoData) || errors.Is(err, chart.ErrNegativeAmount) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Printf("render %s chart: %v", book, err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	book, ext, err := splitFile(chi.URLParam(r, "file"))
	if err != nil || ext != "csv" {
		http.NotFound(w, r)
		return
	}

	sel, err := s.selectScenario(r)
	if err != nil {
		writeSelectionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(book)+".csv"))
	if err := report.WriteCSV(w, book.Mapping(sel.snapshot)); err != nil {
		log.Printf("write %s csv: %v", book, err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func writeSelectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, costmodel.ErrScenarioNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, costmodel.ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "failed to apply scenario", http.StatusInternalServerError)
	}
}

func (s *server) parseTemplate(page string) (*template.Template, error) {
	t, err := template.ParseFiles(
		filepath.Join(s.templatesDir, "layout.html"),
		filepath.Join(s.templatesDir, page),
	)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", page, err)
	}
	return t, nil
}

func (s *server) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	templates, ok := s.templates[page]
	if !ok {
		var err error
		if templates, err = s.parseTemplate(page); err != nil {
			log.Printf("%v", err)
			http.Error(w, "failed to parse template", http.StatusInternalServerError)
			return
		}
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		log.Printf("render %s: %v", page, err)
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
