/*
handlers.go - HTTP API handlers for the seniority engine

PURPOSE:
  Exposes the date engine and the batch processors via REST API. Handles
  HTTP request/response, JSON and workbook serialization, and delegates to
  the calendar, promotion and batch packages.

ENDPOINTS:
  Calculators:
    GET    /api/tiers                  Tier schedule
    GET    /api/tiers/{id}             One tier
    POST   /api/promotion              Tier dates for one seniority date
    POST   /api/experience             Length of service between two dates

  Batches (multipart, field "file"):
    POST   /api/promotion/upload       Append tier dates to a workbook
    POST   /api/experience/upload      Append years/months/days to a workbook

  Templates:
    GET    /api/templates              List sample workbooks
    GET    /api/templates/{kind}       Download a sample workbook

  Runs:
    GET    /api/runs                   Run history (?kind=, ?limit=)
    GET    /api/runs/{id}              One run

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Processor: Batch drivers (schedule and clock live here)
  - Runs: Run log
  - Reader/Writer: Workbook codecs

BATCH RESPONSES:
  By default the processed workbook is returned as an .xlsx attachment with
  the run summary in X-Run-ID, X-Rows-Total and X-Rows-Invalid headers.
  ?format=json returns the same table as JSON instead.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Unparseable dates, bad column references, bad workbooks
  - 404: Unknown run or template
  - 413: Upload too large
  - 429: Upload rate exceeded
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - templates.go: Sample workbooks
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/warp/seniority-engine/batch"
	"github.com/warp/seniority-engine/calendar"
	"github.com/warp/seniority-engine/promotion"
	"github.com/warp/seniority-engine/sheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// DefaultMaxUploadBytes caps multipart bodies when no limit is configured.
	DefaultMaxUploadBytes = 20 << 20
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Processor *batch.Processor
	Runs      batch.RunStore
	Reader    sheet.Reader
	Writer    sheet.Writer

	MaxUploadBytes int64
}

// NewHandler creates a handler. maxRows caps rows read per upload (0 = no cap).
func NewHandler(proc *batch.Processor, runs batch.RunStore, maxUploadBytes int64, maxRows int) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		Processor:      proc,
		Runs:           runs,
		Reader:         sheet.NewExcelReader(maxRows),
		Writer:         sheet.NewExcelWriter(),
		MaxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) today() calendar.Date {
	return calendar.Today(h.Processor.Clock)
}

// =============================================================================
// CALCULATOR ENDPOINTS
// =============================================================================

// Health reports liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTiers returns the promotion schedule.
// GET /api/tiers
func (h *Handler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers := h.Processor.Schedule.Tiers
	dtos := make([]TierDTO, len(tiers))
	for i, t := range tiers {
		dtos[i] = toTierDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTier returns one tier of the promotion schedule.
// GET /api/tiers/{id}
func (h *Handler) GetTier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tier, ok := h.Processor.Schedule.Tier(promotion.TierID(id))
	if !ok {
		writeError(w, http.StatusNotFound, "Tier not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toTierDTO(tier))
}

// CalculatePromotion returns every tier date for one seniority date.
// POST /api/promotion
func (h *Handler) CalculatePromotion(w http.ResponseWriter, r *http.Request) {
	var req PromotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	seniority, err := calendar.ParseDate(req.SeniorityDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid seniority_date", err)
		return
	}

	today := h.today()
	schedule := h.Processor.Schedule

	resp := PromotionResponse{
		SeniorityDate: seniority.String(),
		Today:         today.String(),
	}
	for _, td := range schedule.Eligibility(seniority) {
		resp.Tiers = append(resp.Tiers, toTierDateDTO(td, today))
	}
	if next, ok := schedule.Next(seniority, today); ok {
		dto := toTierDateDTO(next, today)
		resp.Next = &dto
	}

	writeJSON(w, http.StatusOK, resp)
}

// CalculateExperience returns the length of service between two dates.
// A missing end_date means today.
// POST /api/experience
func (h *Handler) CalculateExperience(w http.ResponseWriter, r *http.Request) {
	var req ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := calendar.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date", err)
		return
	}

	end := h.today()
	if strings.TrimSpace(req.EndDate) != "" {
		if end, err = calendar.ParseDate(req.EndDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date", err)
			return
		}
	}

	exp := calendar.Experience(start, end)
	writeJSON(w, http.StatusOK, ExperienceResponse{
		StartDate:       start.String(),
		EndDate:         end.String(),
		Years:           exp.Years,
		Months:          exp.Months,
		Days:            exp.Days,
		TotalMonths:     exp.TotalMonths(),
		FractionalYears: exp.DecimalYears(),
		Summary:         exp.String(),
	})
}

// =============================================================================
// BATCH ENDPOINTS
// =============================================================================

// UploadPromotion processes a workbook of seniority dates.
// POST /api/promotion/upload (file, date_column?)
func (h *Handler) UploadPromotion(w http.ResponseWriter, r *http.Request) {
	name, table, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	res, err := h.Processor.Promotion(r.Context(), table, batch.PromotionRequest{
		FileName:   name,
		DateColumn: r.FormValue("date_column"),
	})
	h.respondBatch(w, r, res, err)
}

// UploadExperience processes a workbook of hire and end dates.
// POST /api/experience/upload (file, start_column, end_column?)
func (h *Handler) UploadExperience(w http.ResponseWriter, r *http.Request) {
	name, table, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	res, err := h.Processor.Experience(r.Context(), table, batch.ExperienceRequest{
		FileName:    name,
		StartColumn: r.FormValue("start_column"),
		EndColumn:   r.FormValue("end_column"),
	})
	h.respondBatch(w, r, res, err)
}

// readUpload parses the multipart form and decodes the "file" part.
// It writes the error response itself and reports whether to continue.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (string, *sheet.Table, bool) {
	if r.ContentLength > h.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Upload exceeds %d bytes", h.MaxUploadBytes), nil)
		return "", nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Upload exceeds %d bytes", h.MaxUploadBytes), err)
			return "", nil, false
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return "", nil, false
	}

	file, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return "", nil, false
	}
	defer file.Close()

	table, err := h.Reader.Read(fh.Filename, file)
	if err != nil {
		status := http.StatusInternalServerError
		if sheet.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Could not read workbook", err)
		return "", nil, false
	}
	return fh.Filename, table, true
}

func (h *Handler) respondBatch(w http.ResponseWriter, r *http.Request, res *batch.Result, err error) {
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Debug().Err(err).Msg("Client went away during batch")
		case sheet.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Could not process workbook", err)
		default:
			writeError(w, http.StatusInternalServerError, "Batch failed", err)
		}
		return
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, toBatchResultDTO(res))
		return
	}

	var buf bytes.Buffer
	if err := h.Writer.Write(&buf, res.Table); err != nil {
		writeError(w, http.StatusInternalServerError, "Could not write workbook", err)
		return
	}

	w.Header().Set("X-Run-ID", res.Run.ID)
	w.Header().Set("X-Rows-Total", strconv.Itoa(res.Run.Rows))
	w.Header().Set("X-Rows-Invalid", strconv.Itoa(res.Run.InvalidRows))
	writeWorkbook(w, res.Run.OutputName, buf.Bytes())
}

// =============================================================================
// TEMPLATE ENDPOINTS
// =============================================================================

// ListTemplates returns the available sample workbooks.
// GET /api/templates
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	dtos := make([]TemplateDTO, len(templates))
	for i, t := range templates {
		dtos[i] = toTemplateDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTemplate downloads a sample workbook.
// GET /api/templates/{kind}
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := findTemplate(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "Template not found", nil)
		return
	}

	var buf bytes.Buffer
	if err := h.Writer.Write(&buf, t.build()); err != nil {
		writeError(w, http.StatusInternalServerError, "Could not write template", err)
		return
	}
	writeWorkbook(w, t.FileName, buf.Bytes())
}

// =============================================================================
// RUN ENDPOINTS
// =============================================================================

// ListRuns returns the run history, newest first.
// GET /api/runs?kind=promotion&limit=50
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	var filter batch.RunFilter

	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter.Kind = batch.Kind(kind)
		if !filter.Kind.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown kind %q", kind), nil)
			return
		}
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = n
	}

	runs, err := h.Runs.ListRuns(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one run.
// GET /api/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Runs.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(*run))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Code = errorCode(err)
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// errorCode gives clients a stable key for the errors they can fix.
func errorCode(err error) string {
	switch {
	case calendar.IsUnparseable(err):
		return "unparseable_date"
	case errors.Is(err, sheet.ErrMissingColumnRef):
		return "missing_column"
	case errors.Is(err, sheet.ErrColumnNotFound):
		return "column_not_found"
	case errors.Is(err, sheet.ErrNoDateColumn):
		return "no_date_column"
	case errors.Is(err, sheet.ErrEmptySheet):
		return "empty_sheet"
	case errors.Is(err, sheet.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, sheet.ErrMalformedWorkbook):
		return "malformed_workbook"
	}
	return ""
}

// writeWorkbook sends an .xlsx attachment. Non-ASCII names are encoded
// per RFC 2231.
func writeWorkbook(w http.ResponseWriter, fileName string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
