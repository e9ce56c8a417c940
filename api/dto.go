package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/seniority-engine/batch"
	"github.com/warp/seniority-engine/calendar"
	"github.com/warp/seniority-engine/promotion"
)

// =============================================================================
// CALCULATOR DTOs
// =============================================================================

// PromotionRequest is the body of POST /api/promotion.
type PromotionRequest struct {
	SeniorityDate string `json:"seniority_date"`
}

// TierDTO describes one tier of the schedule.
type TierDTO struct {
	ID     string          `json:"id"`
	Label  string          `json:"label"`
	Months int             `json:"months"`
	Years  decimal.Decimal `json:"years"`
}

// TierDateDTO is a tier with the date a given employee reaches it.
type TierDateDTO struct {
	TierDTO
	Date    string `json:"date"`
	Display string `json:"display"`
	Reached bool   `json:"reached"`
}

// PromotionResponse lists every tier date for one seniority date.
type PromotionResponse struct {
	SeniorityDate string        `json:"seniority_date"`
	Today         string        `json:"today"`
	Tiers         []TierDateDTO `json:"tiers"`
	Next          *TierDateDTO  `json:"next,omitempty"`
}

// ExperienceRequest is the body of POST /api/experience.
type ExperienceRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

// ExperienceResponse is the length of service between two dates.
type ExperienceResponse struct {
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	Years           int             `json:"years"`
	Months          int             `json:"months"`
	Days            int             `json:"days"`
	TotalMonths     int             `json:"total_months"`
	FractionalYears decimal.Decimal `json:"fractional_years"`
	Summary         string          `json:"summary"`
}

// =============================================================================
// BATCH DTOs
// =============================================================================

// RunDTO is a run log entry.
type RunDTO struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	FileName    string `json:"file_name"`
	OutputName  string `json:"output_name,omitempty"`
	Rows        int    `json:"rows"`
	InvalidRows int    `json:"invalid_rows"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
	DurationMS  int64  `json:"duration_ms"`
}

// BatchResultDTO is a processed workbook rendered as JSON (?format=json).
type BatchResultDTO struct {
	Run       RunDTO   `json:"run"`
	SheetName string   `json:"sheet_name"`
	Header    []string `json:"header"`
	Rows      [][]any  `json:"rows"`
}

// TemplateDTO describes a downloadable sample workbook.
type TemplateDTO struct {
	Kind        string `json:"kind"`
	FileName    string `json:"file_name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// =============================================================================
// ERROR DTOs
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTierDTO(t promotion.Tier) TierDTO {
	return TierDTO{
		ID:     string(t.ID),
		Label:  t.Label,
		Months: t.Months,
		Years:  t.Years(),
	}
}

func toTierDateDTO(td promotion.TierDate, today calendar.Date) TierDateDTO {
	return TierDateDTO{
		TierDTO: toTierDTO(td.Tier),
		Date:    td.Date.String(),
		Display: td.Date.Format(),
		Reached: td.Reached(today),
	}
}

func toRunDTO(r batch.Run) RunDTO {
	return RunDTO{
		ID:          r.ID,
		Kind:        string(r.Kind),
		FileName:    r.FileName,
		OutputName:  r.OutputName,
		Rows:        r.Rows,
		InvalidRows: r.InvalidRows,
		Status:      string(r.Status),
		Error:       r.Error,
		StartedAt:   r.StartedAt.Format(time.RFC3339),
		CompletedAt: r.CompletedAt.Format(time.RFC3339),
		DurationMS:  r.Duration().Milliseconds(),
	}
}

func toBatchResultDTO(res *batch.Result) BatchResultDTO {
	rows := make([][]any, len(res.Table.Rows))
	for i, row := range res.Table.Rows {
		values := make([]any, len(row))
		for j, c := range row {
			values[j] = cellJSON(c)
		}
		rows[i] = values
	}
	return BatchResultDTO{
		Run:       toRunDTO(res.Run),
		SheetName: res.Table.SheetName,
		Header:    res.Table.Header,
		Rows:      rows,
	}
}

// cellJSON renders native dates as ISO dates rather than timestamps.
func cellJSON(c calendar.Cell) any {
	if c.Kind == calendar.CellTime {
		return calendar.DateOf(c.Time).String()
	}
	return c.Value()
}

func toTemplateDTO(t template) TemplateDTO {
	return TemplateDTO{
		Kind:        string(t.Kind),
		FileName:    t.FileName,
		Description: t.Description,
		URL:         "/api/templates/" + string(t.Kind),
	}
}
