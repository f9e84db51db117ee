package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/middleware"
	"github.com/tanmaygarg901/FinSight/internal/service"
)

// MaxStatementSize is the upload size limit for statement files (10 MB)
const MaxStatementSize = 10 << 20

// ImportHandler handles statement upload HTTP requests
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportResultResponse represents the outcome of a statement import
type ImportResultResponse struct {
	BatchID          string  `json:"batchId"`
	Processed        int     `json:"processed"`
	Inserted         int     `json:"inserted"`
	Skipped          int     `json:"skipped"`
	Duplicates       int     `json:"duplicates"`
	Anomalies        int     `json:"anomalies"`
	DataQualityScore float64 `json:"dataQualityScore"`
	ArchiveKey       string  `json:"archiveKey,omitempty"`
}

// ImportStatement godoc
// @Summary Import a CSV statement
// @Description Parse an uploaded bank statement into categorized transactions
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV statement file"
// @Success 201 {object} ImportResultResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /import/statements [post]
func (h *ImportHandler) ImportStatement(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: "A statement file is required"},
		})
	}

	if fileHeader.Size > MaxStatementSize {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: "File exceeds the 10 MB limit"},
		})
	}

	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "file", Message: "Only CSV statements are supported"},
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to open uploaded statement")
		return NewInternalError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	result, err := h.importService.ImportCSV(c.Request().Context(), userID, fileHeader.Filename, src)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyStatement) {
			return NewValidationError(c, "Statement contains no usable rows", nil)
		}
		if errors.Is(err, domain.ErrUnsupportedFormat) {
			return NewValidationError(c, "Statement is missing required columns (date, amount, description)", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Str("filename", fileHeader.Filename).Msg("Statement import failed")
		return NewInternalError(c, "Statement import failed")
	}

	log.Info().Str("user_id", userID.String()).Str("batch_id", result.BatchID.String()).
		Int("inserted", result.Inserted).Int("duplicates", result.Duplicates).
		Float64("quality", result.DataQualityScore).Msg("Statement imported")

	return c.JSON(http.StatusCreated, ImportResultResponse{
		BatchID:          result.BatchID.String(),
		Processed:        result.Processed,
		Inserted:         result.Inserted,
		Skipped:          result.Skipped,
		Duplicates:       result.Duplicates,
		Anomalies:        result.Anomalies,
		DataQualityScore: result.DataQualityScore,
		ArchiveKey:       result.ArchiveKey,
	})
}
