package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/rshade/emissionmission/internal/assistant"
	"github.com/rshade/emissionmission/internal/emissions"
	"github.com/rshade/emissionmission/internal/feedback"
	"github.com/rshade/emissionmission/internal/geomap"
	"github.com/rshade/emissionmission/internal/greenops"
	"github.com/rshade/emissionmission/internal/refdata"
	"github.com/rshade/emissionmission/internal/report"
	"github.com/rshade/emissionmission/internal/session"
)

var errNoResult = errors.New("no emissions result in this session; POST /api/emissions first")

type resultResponse struct {
	Result      emissions.Result            `json:"result"`
	Feedback    []string                    `json:"feedback"`
	Equivalency *greenops.EquivalencyOutput `json:"equivalency,omitempty"`
	Comparison  *comparisonResponse         `json:"comparison,omitempty"`
	Savings     *savingsResponse            `json:"savings,omitempty"`
}

type comparisonResponse struct {
	emissions.ComparisonReport

	Sentences []string `json:"sentences"`
}

type savingsResponse struct {
	emissions.Savings

	CostUSD string `json:"cost_saved_usd"`
}

type compareRequest struct {
	State string `json:"state"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	ReplyHTML string `json:"reply_html"`
}

type stateAverage struct {
	State   string  `json:"state"`
	Average float64 `json:"average"`
}

type statesResponse struct {
	NationalAverage float64        `json:"national_average"`
	States          []stateAverage `json:"states"`
}

type healthResponse struct {
	Status          string   `json:"status"`
	Sessions        int      `json:"sessions"`
	ReferenceIssues []string `json:"reference_issues"`
}

func newResultResponse(snap session.Snapshot) resultResponse {
	res, _ := snap.Result()
	out := resultResponse{
		Result:   res,
		Feedback: feedback.Generate(res.Breakdown),
	}
	if eq := greenops.FromPounds(res.Total); !eq.IsEmpty {
		out.Equivalency = &eq
	}
	if cmp, ok := snap.Comparison(); ok {
		out.Comparison = newComparisonResponse(cmp)
	}
	if sv, ok := snap.Savings(); ok {
		out.Savings = newSavingsResponse(sv)
	}
	return out
}

func newComparisonResponse(c emissions.ComparisonReport) *comparisonResponse {
	return &comparisonResponse{ComparisonReport: c, Sentences: c.Sentences()}
}

func newSavingsResponse(sv emissions.Savings) *savingsResponse {
	return &savingsResponse{Savings: sv, CostUSD: sv.CostSavedUSD().StringFixed(2)}
}

func (s *Server) compare(total float64, state string) (emissions.ComparisonReport, error) {
	return emissions.CompareToReferences(
		total,
		refdata.NormalizeStateName(state),
		s.data.LookupStateAverage,
		refdata.NationalAverage,
		refdata.ErrStateNotFound,
	)
}

func (s *Server) handleEmissions(w http.ResponseWriter, r *http.Request) {
	var usage emissions.UsageRecord
	if err := decodeJSON(w, r, &usage); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := usage.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	id := s.sessionID(w, r)
	result := emissions.Compute(usage)
	snap, err := s.store.Update(id, func(cur session.Snapshot) session.Snapshot {
		return cur.WithResult(result, s.opts.Now())
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newResultResponse(snap))
}

// currentSnapshot loads the caller's snapshot; ok is false when the caller
// has no session or no stored result.
func (s *Server) currentSnapshot(r *http.Request) (session.Snapshot, bool) {
	id, ok := existingSessionID(r)
	if !ok {
		return session.Snapshot{}, false
	}
	snap, err := s.store.Get(id)
	if err != nil || !snap.HasResult() {
		return session.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, errNoResult)
		return
	}
	writeJSON(w, r, http.StatusOK, newResultResponse(snap))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	snap, ok := s.currentSnapshot(r)
	if !ok {
		writeError(w, r, http.StatusConflict, errNoResult)
		return
	}
	res, _ := snap.Result()

	cmp, err := s.compare(res.Total, req.State)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	id, _ := existingSessionID(r)
	if _, err := s.store.Update(id, func(cur session.Snapshot) session.Snapshot {
		return cur.WithComparison(cmp, s.opts.Now())
	}); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newComparisonResponse(cmp))
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	var req emissions.ReductionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	sv := emissions.ComputeSavings(req)
	id := s.sessionID(w, r)
	if _, err := s.store.Update(id, func(cur session.Snapshot) session.Snapshot {
		return cur.WithSavings(sv, s.opts.Now())
	}); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newSavingsResponse(sv))
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	averages := s.data.StateAverages()
	out := statesResponse{NationalAverage: refdata.NationalAverage}
	for _, name := range s.data.StateNames() {
		out.States = append(out.States, stateAverage{State: name, Average: averages[name]})
	}
	writeJSON(w, r, http.StatusOK, out)
}

// handleMap serves GeoJSON by default and the scatterplot description with
// ?format=layer. ?highlight=STATE flags one state.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	points := geomap.Points(s.data, r.URL.Query().Get("highlight"))

	switch format := r.URL.Query().Get("format"); format {
	case "", "geojson":
		data, err := geomap.MarshalGeoJSON(points)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write(data)
	case "layer":
		writeJSON(w, r, http.StatusOK, geomap.NewDeck(points))
	default:
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown map format %q (want geojson|layer)", format))
	}
}

func (s *Server) buildReport(snap session.Snapshot) report.Data {
	res, _ := snap.Result()
	in := report.Input{
		Result:      res,
		Suggestions: feedback.Generate(res.Breakdown),
		Author:      s.opts.ReportAuthor,
		Now:         s.opts.Now(),
	}
	if cmp, ok := snap.Comparison(); ok {
		in.Comparison = &cmp
	}
	if sv, ok := snap.Savings(); ok {
		in.Savings = &sv
	}
	return report.Build(in)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.currentSnapshot(r)
	if !ok {
		writeError(w, r, http.StatusConflict, errNoResult)
		return
	}

	var buf bytes.Buffer
	if err := report.RenderPDF(&buf, s.buildReport(snap)); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.DefaultFileName))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if _, err := assistant.NormalizePrompt(req.Message); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	reply, err := s.chat.Respond(r.Context(), req.Message)
	if err != nil {
		s.log.Error().Ctx(r.Context()).Err(err).Msg("assistant failed")
		writeError(w, r, http.StatusBadGateway, err)
		return
	}

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(reply), &html); err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusOK, chatResponse{Reply: reply, ReplyHTML: html.String()})
}

// handleEndSession drops the caller's stored results and expires the cookie.
func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if id, ok := existingSessionID(r); ok {
		s.store.Delete(id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	issues := make([]string, 0, len(s.issues))
	for _, issue := range s.issues {
		issues = append(issues, issue.String())
	}
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:          "ok",
		Sessions:        s.store.Count(),
		ReferenceIssues: issues,
	})
}
