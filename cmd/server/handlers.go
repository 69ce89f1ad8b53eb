package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/digiquote/internal/docnum"
	"github.com/Simplici0/digiquote/internal/export"
	"github.com/Simplici0/digiquote/internal/pricing"
	"github.com/Simplici0/digiquote/internal/project"
	"github.com/Simplici0/digiquote/internal/store"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type compareResponse struct {
	Scenarios []pricing.Scenario `json:"scenarios"`
	Warnings  []string           `json:"warnings,omitempty"`
}

type projectResponse struct {
	Project  project.ProjectData `json:"project"`
	Warnings []string            `json:"warnings,omitempty"`
}

// readProject decodes the request body. Only a body that is not a JSON
// object is rejected; loose fields come back as warnings.
func readProject(w http.ResponseWriter, r *http.Request) (project.ProjectData, []string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return project.ProjectData{}, nil, false
	}
	p, warnings, err := project.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return project.ProjectData{}, nil, false
	}
	return p, prefixed("input: ", warnings), true
}

func (s *server) handleCalc(w http.ResponseWriter, r *http.Request) {
	p, warnings, ok := readProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.calc("calc", p, warnings))
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	p, warnings, ok := readProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, compareResponse{Scenarios: s.simulate("compare", p), Warnings: warnings})
}

func (s *server) handleNumbers(w http.ResponseWriter, r *http.Request) {
	p, warnings, ok := readProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Project: docnum.Fill(p), Warnings: warnings})
}

func (s *server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.projects.List(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		s.internalError(w, "list projects", err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": list})
}

func (s *server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	p, warnings, ok := readProject(w, r)
	if !ok {
		return
	}
	p = p.EnsureIDs()
	res := s.calc("save", p, nil)

	rec, err := s.projects.Create(r.Context(), p, totalsOf(res))
	if err != nil {
		s.internalError(w, "create project", err)
		return
	}
	rec.Warnings = warnings
	s.log.Info("project created", zap.String("id", rec.ID), zap.String("total", rec.Total.String()))
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, warnings, ok := readProject(w, r)
	if !ok {
		return
	}
	p = p.EnsureIDs()
	res := s.calc("save", p, nil)

	rec, err := s.projects.Update(r.Context(), chi.URLParam(r, "id"), p, totalsOf(res))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.internalError(w, "update project", err)
		return
	}
	rec.Warnings = append(rec.Warnings, warnings...)
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	err := s.projects.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		s.internalError(w, "delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleProjectCalc(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.calc("calc", rec.Data, prefixed("stored: ", rec.Warnings)))
}

func (s *server) handleProjectExport(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	out, err := export.Comparison(rec.Data, s.simulate("export", rec.Data))
	if err != nil {
		s.internalError(w, "export comparison", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="compare-`+rec.ID+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *server) loadProject(w http.ResponseWriter, r *http.Request) (store.Record, bool) {
	rec, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return store.Record{}, false
	}
	if err != nil {
		s.internalError(w, "load project", err)
		return store.Record{}, false
	}
	return rec, true
}

func (s *server) calc(op string, p project.ProjectData, extra []string) pricing.CalcResult {
	start := time.Now()
	res := s.tables.Calc(p)
	res.Warnings = append(extra, res.Warnings...)
	s.metrics.observe(op, start, res)
	if len(res.Warnings) > 0 {
		s.log.Warn("evaluation warnings", zap.String("op", op), zap.Strings("warnings", res.Warnings))
	}
	return res
}

func (s *server) simulate(op string, p project.ProjectData) []pricing.Scenario {
	start := time.Now()
	scenarios := s.tables.SimulateTiers(p)
	results := make([]pricing.CalcResult, len(scenarios))
	for i, sc := range scenarios {
		results[i] = sc.Result
	}
	s.metrics.observe(op, start, results...)
	return scenarios
}

func (s *server) internalError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg+" failed")
}

func totalsOf(res pricing.CalcResult) pricing.TotalsResult {
	return pricing.TotalsResult{Subtotal: res.Subtotal, Tax: res.Tax, Total: res.Total}
}

func prefixed(prefix string, in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = prefix + s
	}
	return out
}
