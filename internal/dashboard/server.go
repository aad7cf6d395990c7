// Package dashboard serves the live election status page, its JSON feed,
// exports and the manual refresh trigger.
package dashboard

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"electwatch/internal"
	apperr "electwatch/internal/errors"
	"electwatch/internal/export"
	"electwatch/internal/logger"
	"electwatch/internal/pipeline"
	"electwatch/internal/state"
	"electwatch/internal/taxonomy"
)

//go:embed templates/*
var templatesFS embed.FS

const lastUpdatedLayout = "01월 02일 15시 04분 05초"

// noticeParam carries the error code of a failed form refresh back to the
// index page.
const noticeParam = "notice"

var refreshNotices = map[string]string{
	ErrCodeBusy:           "이미 업데이트가 진행 중입니다. 잠시 후 다시 시도해 주세요.",
	ErrCodeFetchFailed:    "업데이트에 실패했습니다. 이전 현황을 그대로 표시합니다.",
	ErrCodeInternalServer: "업데이트 중 오류가 발생했습니다.",
}

type Refresher interface {
	Refresh(ctx context.Context) (pipeline.RefreshResult, error)
}

type Options struct {
	Refresher        Refresher
	Store            *state.Store
	Taxonomy         *taxonomy.Taxonomy
	NearClosingRatio float64
	AutoRefresh      bool
	RefreshInterval  time.Duration
	Logger           logger.Logger
	Now              func() time.Time
}

type Server struct {
	refresher   Refresher
	store       *state.Store
	tax         *taxonomy.Taxonomy
	ratio       float64
	autoRefresh bool
	interval    time.Duration
	log         logger.Logger
	now         func() time.Time
	index       *template.Template
}

func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Taxonomy == nil {
		opts.Taxonomy = taxonomy.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Store == nil {
		opts.Store = state.New()
	}
	if opts.NearClosingRatio <= 0 {
		opts.NearClosingRatio = pipeline.DefaultNearClosingRatio
	}

	s := &Server{
		refresher:   opts.Refresher,
		store:       opts.Store,
		tax:         opts.Taxonomy,
		ratio:       opts.NearClosingRatio,
		autoRefresh: opts.AutoRefresh,
		interval:    opts.RefreshInterval,
		log:         opts.Logger,
		now:         opts.Now,
	}

	funcs := template.FuncMap{
		"rate":     export.FormatRate,
		"count":    export.FormatCount,
		"growth":   export.FormatGrowth,
		"delta":    export.FormatDelta,
		"comma":    export.FormatInt,
		"rowClass": func(r internal.UnitRecord) string { return string(pipeline.RowClassOf(r, s.ratio)) },
	}
	index, err := template.New("index.html").Funcs(funcs).ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	s.index = index
	return s, nil
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleIndex)
	r.Get("/api/snapshot", s.handleSnapshot)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/export/csv", s.handleExportCSV)
	r.Get("/export/text", s.handleExportText)
	r.Get("/export/xlsx", s.handleExportXLSX)

	return r
}

// viewOptions reads "commission" (repeated or comma separated) and "sort".
func viewOptions(r *http.Request) pipeline.ViewOptions {
	q := r.URL.Query()
	var commissions []string
	for _, v := range q["commission"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				commissions = append(commissions, c)
			}
		}
	}
	return pipeline.ViewOptions{Commissions: commissions, Sort: pipeline.ParseSortKey(q.Get("sort"))}
}

type pageData struct {
	LastUpdated  string
	Notice       string
	NoData       bool
	HasSnapshot  bool
	AutoRefresh  bool
	RefreshSec   int
	Summary      internal.Summary
	View         pipeline.View
	Commissions  []commissionOption
	SortOptions  []sortOption
	Exports      exportLinks
	ActiveFilter bool
}

type exportLinks struct {
	CSV  string
	XLSX string
	Text string
}

func newExportLinks(rawQuery string) exportLinks {
	link := func(kind string) string {
		if rawQuery == "" {
			return "/export/" + kind
		}
		return "/export/" + kind + "?" + rawQuery
	}
	return exportLinks{CSV: link("csv"), XLSX: link("xlsx"), Text: link("text")}
}

type commissionOption struct {
	Name     string
	Selected bool
}

type sortOption struct {
	Key      pipeline.SortKey
	Label    string
	Selected bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	opts := viewOptions(r)

	data := pageData{
		LastUpdated: "-",
		NoData:      s.store.NoData(),
		HasSnapshot: !snap.Empty(),
		AutoRefresh: s.autoRefresh,
		RefreshSec:  int(s.interval / time.Second),
		Summary:     pipeline.Summarize(snap.Records, s.tax.Targets),
		View:        pipeline.BuildView(snap.Records, opts),
	}
	q := r.URL.Query()
	data.Notice = refreshNotices[q.Get(noticeParam)]
	q.Del(noticeParam)
	data.Exports = newExportLinks(q.Encode())
	if ts, ok := s.store.LastUpdated(); ok {
		data.LastUpdated = ts.Local().Format(lastUpdatedLayout)
	}

	selected := map[string]bool{}
	for _, c := range opts.Commissions {
		selected[c] = true
	}
	data.ActiveFilter = len(selected) > 0
	for _, c := range pipeline.CommissionOptions(snap.Records) {
		data.Commissions = append(data.Commissions, commissionOption{Name: c, Selected: selected[c]})
	}
	for _, k := range pipeline.SortKeys() {
		data.SortOptions = append(data.SortOptions, sortOption{Key: k, Label: k.Label(), Selected: k == opts.Sort})
	}

	var buf bytes.Buffer
	if err := s.index.Execute(&buf, data); err != nil {
		s.log.Error("render index", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

type snapshotResponse struct {
	LastUpdated *time.Time            `json:"lastUpdated"`
	NoData      bool                  `json:"noData"`
	Records     []internal.UnitRecord `json:"records"`
	Summary     internal.Summary      `json:"summary"`
	Complete    []viewRow             `json:"complete"`
	Incomplete  []internal.UnitRecord `json:"incomplete"`
	Commissions []string              `json:"commissions"`
}

type viewRow struct {
	internal.UnitRecord
	RowClass internal.RowClass `json:"rowClass"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	view := pipeline.BuildView(snap.Records, viewOptions(r))

	resp := snapshotResponse{
		NoData:      s.store.NoData(),
		Records:     snap.Records,
		Summary:     pipeline.Summarize(snap.Records, s.tax.Targets),
		Complete:    make([]viewRow, 0, len(view.Complete)),
		Incomplete:  view.Incomplete,
		Commissions: pipeline.CommissionOptions(snap.Records),
	}
	if resp.Records == nil {
		resp.Records = []internal.UnitRecord{}
	}
	if ts, ok := s.store.LastUpdated(); ok {
		resp.LastUpdated = &ts
	}
	for _, rec := range view.Complete {
		resp.Complete = append(resp.Complete, viewRow{UnitRecord: rec, RowClass: pipeline.RowClassOf(rec, s.ratio)})
	}
	respondJSON(w, http.StatusOK, resp)
}

type refreshResponse struct {
	TraceID    string `json:"traceId"`
	Units      int    `json:"units"`
	DurationMs int64  `json:"durationMs"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	res, err := s.refresher.Refresh(r.Context())
	redirect := r.FormValue("redirect") != ""
	if err != nil {
		if redirect {
			apiErr := ToAPIError(err)
			s.log.Warn("manual refresh failed", "code", apiErr.Code, "error", err)
			http.Redirect(w, r, "/?"+url.Values{noticeParam: {apiErr.Code}}.Encode(), http.StatusSeeOther)
			return
		}
		respondError(w, err)
		return
	}
	if redirect {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	respondJSON(w, http.StatusOK, refreshResponse{
		TraceID:    res.TraceID,
		Units:      len(res.Snapshot.Records),
		DurationMs: res.Duration.Milliseconds(),
	})
}

// exportView is the ranked part of the current view, or a NotFound error
// when there is nothing to export.
func (s *Server) exportView(r *http.Request) ([]internal.UnitRecord, error) {
	snap := s.store.Current()
	if snap.Empty() {
		return nil, apperr.NotFound("no snapshot available")
	}
	return pipeline.BuildView(snap.Records, viewOptions(r)).Complete, nil
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	records, err := s.exportView(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.CSVFileName(s.now())+`"`)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExportText(w http.ResponseWriter, r *http.Request) {
	records, err := s.exportView(r)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(export.TextReport(records, s.tax.Order)))
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	records, err := s.exportView(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, records, s.ratio); err != nil {
		respondError(w, err)
		return
	}
	name := strings.TrimSuffix(export.CSVFileName(s.now()), ".csv") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = buf.WriteTo(w)
}
