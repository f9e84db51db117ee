package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/middleware"
	"github.com/tanmaygarg901/FinSight/internal/service"
)

// ExportHandler handles data export HTTP requests
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportTransactions godoc
// @Summary Export transactions
// @Description Download a month's transactions as CSV, JSON or XLSX
// @Tags export
// @Produce octet-stream
// @Security BearerAuth
// @Param year query int false "Year, defaults to current"
// @Param month query int false "Month (1-12), defaults to current"
// @Param format query string false "Export format (csv, json, xlsx)" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /export/transactions [get]
func (h *ExportHandler) ExportTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, format, err := parseExportParams(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	file, err := h.exportService.ExportTransactions(userID, year, month, format)
	if err != nil {
		return h.mapExportError(c, err)
	}

	return sendExport(c, file)
}

// ExportSummary godoc
// @Summary Export monthly summary
// @Description Download the per-category monthly summary as CSV, JSON or XLSX
// @Tags export
// @Produce octet-stream
// @Security BearerAuth
// @Param year query int false "Year, defaults to current"
// @Param month query int false "Month (1-12), defaults to current"
// @Param format query string false "Export format (csv, json, xlsx)" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /export/summary [get]
func (h *ExportHandler) ExportSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, format, err := parseExportParams(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	file, err := h.exportService.ExportSummary(userID, year, month, format)
	if err != nil {
		return h.mapExportError(c, err)
	}

	return sendExport(c, file)
}

func (h *ExportHandler) mapExportError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		return NewValidationError(c, "Invalid format (must be csv, json or xlsx)", nil)
	}
	if errors.Is(err, domain.ErrInvalidMonth) {
		return NewValidationError(c, "Invalid month (must be 1-12)", nil)
	}
	log.Error().Err(err).Msg("Export failed")
	return NewInternalError(c, "Export failed")
}

// parseExportParams reads the optional year/month/format query params,
// defaulting to the current month and CSV
func parseExportParams(c echo.Context) (int, int, service.ExportFormat, error) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if yearStr := c.QueryParam("year"); yearStr != "" {
		v, err := strconv.Atoi(yearStr)
		if err != nil || v < 2000 || v > 2100 {
			return 0, 0, "", errors.New("Invalid year")
		}
		year = v
	}
	if monthStr := c.QueryParam("month"); monthStr != "" {
		v, err := strconv.Atoi(monthStr)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, "", errors.New("Invalid month (must be 1-12)")
		}
		month = v
	}

	format := service.ExportFormatCSV
	if formatStr := c.QueryParam("format"); formatStr != "" {
		format = service.ExportFormat(formatStr)
		if !format.Valid() {
			return 0, 0, "", errors.New("Invalid format (must be csv, json or xlsx)")
		}
	}

	return year, month, format, nil
}

func sendExport(c echo.Context, file *service.ExportFile) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, file.Name))
	return c.Blob(http.StatusOK, file.ContentType, file.Data)
}
