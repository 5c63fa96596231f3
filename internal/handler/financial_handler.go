package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/finance"
	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/dafibh/tally/tally-backend/internal/util"
	"github.com/labstack/echo/v4"
)

// FinancialHandler serves the derived monthly views
type FinancialHandler struct {
	snapshots *service.SnapshotService
	now       func() time.Time
	loc       *time.Location
}

// NewFinancialHandler creates a new FinancialHandler. loc decides which month is current.
func NewFinancialHandler(snapshots *service.SnapshotService, loc *time.Location) *FinancialHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &FinancialHandler{snapshots: snapshots, now: time.Now, loc: loc}
}

// ReloadResponse reports the snapshot installed by a reload
type ReloadResponse struct {
	Version      uint64 `json:"version"`
	Transactions int    `json:"transactions"`
	Contacts     int    `json:"contacts"`
	Categories   int    `json:"categories"`
}

// GetFinancials godoc
// @Summary Get the financial snapshot of a month
// @Tags financials
// @Produce json
// @Security BearerAuth
// @Param month path string true "Month (YYYY-MM)"
// @Success 200 {object} finance.FinancialSnapshot
// @Failure 400 {object} ProblemDetails
// @Router /financials/{month} [get]
func (h *FinancialHandler) GetFinancials(c echo.Context) error {
	month, ok := parseMonth(c, "month")
	if !ok {
		return NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be in YYYY-MM format"},
		})
	}
	return c.JSON(http.StatusOK, h.snapshots.Financials(month))
}

// GetHistory godoc
// @Summary Get the multi-month history
// @Tags financials
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months (default 6, max 36)"
// @Param end query string false "Last month (YYYY-MM), defaults to the current month"
// @Success 200 {object} finance.History
// @Failure 400 {object} ProblemDetails
// @Router /history [get]
func (h *FinancialHandler) GetHistory(c echo.Context) error {
	months := finance.DefaultHistoryMonths
	if raw := c.QueryParam("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > finance.MaxHistoryMonths {
			return NewValidationError(c, "Invalid months", []ValidationError{
				{Field: "months", Message: "Must be between 1 and " + strconv.Itoa(finance.MaxHistoryMonths)},
			})
		}
		months = n
	}

	now := h.now()
	end := util.CurrentMonth(now, h.loc)
	if raw := c.QueryParam("end"); raw != "" {
		parsed, err := domain.ParseMonthYear(raw)
		if err != nil {
			return NewValidationError(c, "Invalid end month", []ValidationError{
				{Field: "end", Message: "Must be in YYYY-MM format"},
			})
		}
		if util.IsFutureMonth(parsed, now, h.loc) {
			return NewValidationError(c, "Invalid end month", []ValidationError{
				{Field: "end", Message: "Must not be in the future"},
			})
		}
		end = parsed
	}

	return c.JSON(http.StatusOK, h.snapshots.History(end, months))
}

// ReloadSnapshot godoc
// @Summary Re-read the record store
// @Tags financials
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ReloadResponse
// @Failure 502 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /snapshot/reload [post]
func (h *FinancialHandler) ReloadSnapshot(c echo.Context) error {
	snapshot, err := h.snapshots.Load(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, ReloadResponse{
		Version:      snapshot.Version,
		Transactions: len(snapshot.Transactions),
		Contacts:     len(snapshot.Contacts),
		Categories:   len(snapshot.Categories),
	})
}
