package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/middleware"
	"github.com/tanmaygarg901/FinSight/internal/service"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// SetBudgetRequest represents the single-budget request body
type SetBudgetRequest struct {
	Amount string `json:"amount"`
}

// SetBudgetsRequest represents the batch budget request body
type SetBudgetsRequest struct {
	Budgets []struct {
		CategoryID int32  `json:"categoryId"`
		Amount     string `json:"amount"`
	} `json:"budgets"`
}

// BudgetRowResponse represents one category's budget in API responses
type BudgetRowResponse struct {
	CategoryID   int32  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Amount       string `json:"amount"`
}

// BudgetMonthResponse represents all budgets for a month in API responses
type BudgetMonthResponse struct {
	Year       int                 `json:"year"`
	Month      int                 `json:"month"`
	Total      string              `json:"total"`
	Categories []BudgetRowResponse `json:"categories"`
}

// GetBudgets godoc
// @Summary Get budgets for a month
// @Description Get all category budgets for a month with the total
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} BudgetMonthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /budgets/{year}/{month} [get]
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	result, err := h.budgetService.GetBudgetsForMonth(userID, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Invalid month (must be 1-12)", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("year", year).Int("month", month).Msg("Failed to get budgets")
		return NewInternalError(c, "Failed to get budgets")
	}

	return c.JSON(http.StatusOK, toBudgetMonthResponse(result))
}

// SetBudget godoc
// @Summary Set a category budget
// @Description Create or replace one category's budget for a month
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param categoryId path int true "Category ID"
// @Param request body SetBudgetRequest true "Budget amount"
// @Success 200 {object} BudgetRowResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{year}/{month}/{categoryId} [put]
func (h *BudgetHandler) SetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	categoryID, err := strconv.Atoi(c.Param("categoryId"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	var req SetBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.SetBudget(userID, int32(categoryID), year, month, amount)
	if err != nil {
		return h.mapBudgetError(c, err)
	}

	log.Info().Str("user_id", userID.String()).Int32("category_id", budget.CategoryID).
		Int("year", year).Int("month", month).Msg("Budget set")
	return c.JSON(http.StatusOK, BudgetRowResponse{
		CategoryID: budget.CategoryID,
		Amount:     budget.Amount.StringFixed(2),
	})
}

// SetBudgets godoc
// @Summary Set budgets for a month
// @Description Create or replace multiple category budgets atomically
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param request body SetBudgetsRequest true "Budgets to set"
// @Success 200 {object} BudgetMonthResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /budgets/{year}/{month} [put]
func (h *BudgetHandler) SetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	var req SetBudgetsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	inputs := make([]service.BudgetInput, len(req.Budgets))
	for i, b := range req.Budgets {
		amount, err := decimal.NewFromString(b.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "budgets", Message: "Every amount must be a valid decimal number"},
			})
		}
		inputs[i] = service.BudgetInput{CategoryID: b.CategoryID, Amount: amount}
	}

	result, err := h.budgetService.SetBudgets(userID, year, month, inputs)
	if err != nil {
		return h.mapBudgetError(c, err)
	}

	log.Info().Str("user_id", userID.String()).Int("year", year).Int("month", month).
		Int("count", len(inputs)).Msg("Budgets set")
	return c.JSON(http.StatusOK, toBudgetMonthResponse(result))
}

// DeleteBudget godoc
// @Summary Delete a category budget
// @Description Remove one category's budget for a month
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param categoryId path int true "Category ID"
// @Success 204 "No Content"
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{year}/{month}/{categoryId} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, month, err := parseYearMonth(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	categoryID, err := strconv.Atoi(c.Param("categoryId"))
	if err != nil {
		return NewValidationError(c, "Invalid category ID", nil)
	}

	if err := h.budgetService.DeleteBudget(userID, int32(categoryID), year, month); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return NewNotFoundError(c, "Category not found")
		}
		log.Error().Err(err).Str("user_id", userID.String()).Int("category_id", categoryID).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	log.Info().Str("user_id", userID.String()).Int("category_id", categoryID).
		Int("year", year).Int("month", month).Msg("Budget deleted")
	return c.NoContent(http.StatusNoContent)
}

func (h *BudgetHandler) mapBudgetError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrInvalidMonth) {
		return NewValidationError(c, "Invalid month (must be 1-12)", nil)
	}
	if errors.Is(err, domain.ErrInvalidAmount) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must not be negative"},
		})
	}
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "categoryId", Message: "Category not found"},
		})
	}
	log.Error().Err(err).Msg("Budget operation failed")
	return NewInternalError(c, "Budget operation failed")
}

// parseYearMonth reads the :year/:month path segments
func parseYearMonth(c echo.Context) (int, int, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, errors.New("Invalid year")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, errors.New("Invalid month (must be 1-12)")
	}
	return year, month, nil
}

func toBudgetMonthResponse(m *service.BudgetMonth) BudgetMonthResponse {
	response := BudgetMonthResponse{
		Year:       m.Year,
		Month:      m.Month,
		Total:      m.Total.StringFixed(2),
		Categories: make([]BudgetRowResponse, len(m.Categories)),
	}
	for i, row := range m.Categories {
		response.Categories[i] = BudgetRowResponse{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			Amount:       row.Amount.StringFixed(2),
		}
	}
	return response
}
