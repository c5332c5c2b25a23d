package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/feedback"
	"github.com/rshade/emissionmission/internal/greenops"
	"github.com/rshade/emissionmission/internal/session"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

func parsePage() (*template.Template, error) {
	t, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return t, nil
}

// formValues echoes the submitted form back into the page.
type formValues struct {
	Electricity string
	Gas         string
	Water       string
	Internet    string
	State       string
}

type pageView struct {
	Form        formValues
	States      []string
	Error       string
	Result      *emissions.Result
	Equivalency string
	Comparison  []string
	Feedback    []string
}

func (s *Server) newPageView(snap session.Snapshot) pageView {
	v := pageView{States: s.data.StateNames()}
	res, ok := snap.Result()
	if !ok {
		return v
	}

	v.Result = &res
	v.Feedback = feedback.Generate(res.Breakdown)
	if eq := greenops.FromPounds(res.Total); !eq.IsEmpty {
		v.Equivalency = eq.DisplayText
	}
	if cmp, ok := snap.Comparison(); ok {
		v.Comparison = cmp.Sentences()
		if cmp.State != nil {
			v.Form.State = cmp.State.State
		}
	}

	u := res.Usage
	v.Form.Electricity = formatAmount(u.ElectricityKWh)
	v.Form.Gas = formatAmount(u.GasTherms)
	v.Form.Water = formatAmount(u.WaterGallons)
	v.Form.Internet = formatAmount(u.InternetGB)
	return v
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, v pageView) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, v); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var snap session.Snapshot
	if id, ok := existingSessionID(r); ok {
		snap, _ = s.store.Get(id)
	}
	s.renderPage(w, r, http.StatusOK, s.newPageView(snap))
}

// parseUsageForm reads the four usage fields; blank fields count as zero.
func parseUsageForm(r *http.Request) (emissions.UsageRecord, formValues, error) {
	form := formValues{
		Electricity: strings.TrimSpace(r.PostFormValue("electricity")),
		Gas:         strings.TrimSpace(r.PostFormValue("gas")),
		Water:       strings.TrimSpace(r.PostFormValue("water")),
		Internet:    strings.TrimSpace(r.PostFormValue("internet")),
		State:       strings.TrimSpace(r.PostFormValue("state")),
	}

	var usage emissions.UsageRecord
	fields := []struct {
		cat emissions.Category
		raw string
	}{
		{emissions.Electricity, form.Electricity},
		{emissions.Gas, form.Gas},
		{emissions.Water, form.Water},
		{emissions.Internet, form.Internet},
	}
	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return emissions.UsageRecord{}, form, fmt.Errorf("%s: %q is not a number", f.cat, f.raw)
		}
		usage = usage.With(f.cat, v)
	}
	if err := usage.Validate(); err != nil {
		return emissions.UsageRecord{}, form, err
	}
	return usage, form, nil
}

// handleFormCalculate is the no-JavaScript path: compute, store, redirect.
func (s *Server) handleFormCalculate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	usage, form, err := parseUsageForm(r)
	if err != nil {
		v := s.newPageView(session.Snapshot{})
		v.Form = form
		v.Error = err.Error()
		s.renderPage(w, r, http.StatusBadRequest, v)
		return
	}

	result := emissions.Compute(usage)
	cmp, err := s.compare(result.Total, form.State)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	id := s.sessionID(w, r)
	now := s.opts.Now()
	if _, err := s.store.Update(id, func(cur session.Snapshot) session.Snapshot {
		return cur.WithResult(result, now).WithComparison(cmp, now)
	}); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
