package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/middleware"
	"github.com/tanmaygarg901/FinSight/internal/service"
)

// AnalyticsHandler handles the derived analytics HTTP requests. All endpoints
// recompute from raw transactions and budgets; nothing here is cached.
type AnalyticsHandler struct {
	summaryService    *service.SummaryService
	trendService      *service.TrendService
	projectionService *service.ProjectionService
	insightService    *service.InsightService
	healthService     *service.HealthService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(
	summaryService *service.SummaryService,
	trendService *service.TrendService,
	projectionService *service.ProjectionService,
	insightService *service.InsightService,
	healthService *service.HealthService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		summaryService:    summaryService,
		trendService:      trendService,
		projectionService: projectionService,
		insightService:    insightService,
		healthService:     healthService,
	}
}

// CategorySummaryResponse represents one category's monthly summary in API responses
type CategorySummaryResponse struct {
	CategoryID       int32  `json:"categoryId"`
	CategoryName     string `json:"categoryName"`
	TotalSpent       string `json:"totalSpent"`
	BudgetAmount     string `json:"budgetAmount"`
	RemainingBudget  string `json:"remainingBudget"`
	TransactionCount int    `json:"transactionCount"`
}

// GetSummary godoc
// @Summary Monthly category summary
// @Description Per-category spending, budget and remaining amounts for a month
// @Tags analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param month query int false "Month (1-12), defaults to current"
// @Param year query int false "Year, defaults to current"
// @Success 200 {array} CategorySummaryResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	month, year, err := parseMonthYearQuery(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	summaries, err := h.summaryService.GetMonthlySummary(userID, month, year)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Invalid month (must be 1-12)", nil)
		}
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get monthly summary")
		return NewInternalError(c, "Failed to get monthly summary")
	}

	response := make([]CategorySummaryResponse, len(summaries))
	for i, summary := range summaries {
		response[i] = CategorySummaryResponse{
			CategoryID:       summary.CategoryID,
			CategoryName:     summary.CategoryName,
			TotalSpent:       summary.TotalSpent.StringFixed(2),
			BudgetAmount:     summary.BudgetAmount.StringFixed(2),
			RemainingBudget:  summary.RemainingBudget.StringFixed(2),
			TransactionCount: summary.TransactionCount,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetTrends godoc
// @Summary Spending trends
// @Description Daily spending series, week-over-week change, confidence and behavior flags
// @Tags analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.TrendReport
// @Failure 401 {object} ProblemDetails
// @Router /analytics/trends [get]
func (h *AnalyticsHandler) GetTrends(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	report, err := h.trendService.GetTrends(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get trends")
		return NewInternalError(c, "Failed to get trends")
	}
	return c.JSON(http.StatusOK, report)
}

// GetProjection godoc
// @Summary Monthly spending projection
// @Description Cumulative actual/predicted series for the current month with per-category risk predictions
// @Tags analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.MonthlyProjection
// @Failure 401 {object} ProblemDetails
// @Router /analytics/projection [get]
func (h *AnalyticsHandler) GetProjection(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	projection, err := h.projectionService.GetProjection(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get projection")
		return NewInternalError(c, "Failed to get projection")
	}
	return c.JSON(http.StatusOK, projection)
}

// GetInsights godoc
// @Summary Spending insights
// @Description Generated observations about spending behavior, sorted by priority
// @Tags analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Insight
// @Failure 401 {object} ProblemDetails
// @Router /analytics/insights [get]
func (h *AnalyticsHandler) GetInsights(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	insights, err := h.insightService.GetInsights(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get insights")
		return NewInternalError(c, "Failed to get insights")
	}
	return c.JSON(http.StatusOK, insights)
}

// GetHealth godoc
// @Summary Financial health score
// @Description Health score and grade over the trailing three months
// @Tags analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.FinancialHealth
// @Failure 401 {object} ProblemDetails
// @Router /analytics/health [get]
func (h *AnalyticsHandler) GetHealth(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	health, err := h.healthService.GetFinancialHealth(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to get financial health")
		return NewInternalError(c, "Failed to get financial health")
	}
	return c.JSON(http.StatusOK, health)
}

// parseMonthYearQuery reads optional month/year query params, 0 meaning "current"
func parseMonthYearQuery(c echo.Context) (int, int, error) {
	month := 0
	year := 0

	if monthStr := c.QueryParam("month"); monthStr != "" {
		v, err := strconv.Atoi(monthStr)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, errors.New("Invalid month (must be 1-12)")
		}
		month = v
	}
	if yearStr := c.QueryParam("year"); yearStr != "" {
		v, err := strconv.Atoi(yearStr)
		if err != nil || v < 2000 || v > 2100 {
			return 0, 0, errors.New("Invalid year")
		}
		year = v
	}
	return month, year, nil
}
