package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
	"github.com/JonMunkholm/mtgprice/internal/pricing"
	"github.com/JonMunkholm/mtgprice/internal/report"
)

// uploadField is the multipart field that carries the list.
const uploadField = "file"

// errNoUpload is returned when a request carries no list at all.
var errNoUpload = fmt.Errorf("%w: request has no file", core.ErrUnreadableInput)

// runOutput is what every run handler hands back for rendering.
type runOutput struct {
	runID    string
	table    report.Table
	summary  map[string]any
	warnings []core.Warning
}

// RunResponse is the JSON body of a run.
type RunResponse struct {
	RunID    string         `json:"run_id"`
	Header   []string       `json:"header"`
	Rows     [][]string     `json:"rows"`
	Summary  map[string]any `json:"summary,omitempty"`
	Warnings []WarningJSON  `json:"warnings,omitempty"`
}

// WarningJSON is a skipped line in a run response.
type WarningJSON struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Data   string `json:"data,omitempty"`
}

// FormatJSON describes one list grammar for GET /api/formats.
type FormatJSON struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Priority int    `json:"priority"`
	Fallback bool   `json:"fallback"`
}

// handlePrice prices an uploaded list. Query: set (default set for
// requests without one), format (json, csv or xlsx).
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	name, content, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	setFilter := r.URL.Query().Get("set")

	s.run(w, r, "price", func(ctx context.Context) (*runOutput, error) {
		res, err := s.service.PriceList(ctx, name, content, setFilter)
		if err != nil {
			return nil, err
		}
		return &runOutput{
			runID: res.RunID,
			table: res.Table(),
			summary: map[string]any{
				"format":      res.Format.Key,
				"total_cards": res.TotalCards,
				"rows":        len(res.Rows),
				"not_found":   res.NotFound,
			},
			warnings: res.Warnings,
		}, nil
	})
}

// handleValue totals an uploaded, filled-in template.
func (s *Server) handleValue(w http.ResponseWriter, r *http.Request) {
	name, content, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	s.run(w, r, "value", func(ctx context.Context) (*runOutput, error) {
		res, err := s.service.Value(ctx, name, content)
		if err != nil {
			return nil, err
		}
		return &runOutput{
			runID: res.RunID,
			table: res.Table(),
			summary: map[string]any{
				"total_cards": res.TotalCards,
				"total_value": core.FormatUSD(res.TotalValue),
			},
		}, nil
	})
}

// handleTemplate lists every printing of ?sets=MH3,LCI.
func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	sets := r.URL.Query()["sets"]

	s.run(w, r, "template", func(ctx context.Context) (*runOutput, error) {
		res, err := s.service.Template(ctx, sets)
		if err != nil {
			return nil, err
		}
		return &runOutput{
			runID: res.RunID,
			table: res.Table(),
			summary: map[string]any{
				"sets": res.Sets,
				"rows": len(res.Rows),
			},
		}, nil
	})
}

// handleBuylist diffs ?sets= against an optional uploaded inventory. With no
// upload, nothing is owned.
func (s *Server) handleBuylist(w http.ResponseWriter, r *http.Request) {
	sets := r.URL.Query()["sets"]

	owned := pricing.Ownership{}
	var warnings []core.Warning

	name, content, err := s.readUpload(w, r)
	switch {
	case errors.Is(err, errNoUpload):
	case err != nil:
		s.respondError(w, r, err, statusFor(err))
		return
	default:
		owned, warnings = pricing.ParseOwnership(name, content)
	}

	s.run(w, r, "buylist", func(ctx context.Context) (*runOutput, error) {
		res, err := s.service.Buylist(ctx, sets, owned)
		if err != nil {
			return nil, err
		}
		return &runOutput{
			runID: res.RunID,
			table: res.Table(),
			summary: map[string]any{
				"sets":              res.Sets,
				"missing":           res.Missing(),
				"owned":             res.Owned,
				"total_cost":        core.FormatUSD(res.TotalCost),
				"missing_by_rarity": res.MissingByRarity,
			},
			warnings: warnings,
		}, nil
	})
}

// handleFormats lists the list grammars in detection order.
func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	all := core.All()
	out := make([]FormatJSON, len(all))
	for i, def := range all {
		f := def.Info
		out[i] = FormatJSON{Key: f.Key, Label: f.Label, Priority: f.Priority, Fallback: f.Fallback}
	}
	writeJSON(w, out)
}

// run holds a job slot for fn and renders its output in the requested format.
func (s *Server) run(w http.ResponseWriter, r *http.Request, mode string, fn func(context.Context) (*runOutput, error)) {
	if err := s.jobs.Acquire(r.Context()); err != nil {
		s.runs.WithLabelValues(mode, "rejected").Inc()
		if errors.Is(err, ErrTooManyRuns) {
			w.Header().Set("Retry-After", "30")
		}
		s.respondError(w, r, err, statusFor(err))
		return
	}
	defer s.jobs.Release()

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Server.RunTimeout)
	defer cancel()

	out, err := fn(ctx)
	if err != nil {
		s.runs.WithLabelValues(mode, "error").Inc()
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.runs.WithLabelValues(mode, "ok").Inc()

	w.Header().Set("X-Run-ID", out.runID)
	s.writeOutput(w, r, out)
}

// writeOutput writes out as JSON, or as a csv/xlsx attachment when
// ?format= asks for one.
func (s *Server) writeOutput(w http.ResponseWriter, r *http.Request, out *runOutput) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" || format == "json" {
		writeJSON(w, newRunResponse(out))
		return
	}

	f := report.ParseFormat(format)
	var buf bytes.Buffer
	if err := report.Write(&buf, f, out.table); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": out.table.Name + "." + string(f)}))
	w.Write(buf.Bytes())
}

func newRunResponse(out *runOutput) RunResponse {
	resp := RunResponse{
		RunID:   out.runID,
		Header:  out.table.Header,
		Rows:    out.table.Rows,
		Summary: out.summary,
	}
	if resp.Rows == nil {
		resp.Rows = [][]string{}
	}
	for _, wn := range out.warnings {
		resp.Warnings = append(resp.Warnings, WarningJSON{Line: wn.LineNumber, Reason: wn.Reason, Data: wn.Data})
	}
	return resp
}
