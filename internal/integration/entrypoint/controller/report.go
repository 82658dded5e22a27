package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/report"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// ReportController handles report endpoints.
type ReportController struct {
	byTimeUseCase          *report.GetReportByTimeUseCase
	distributionUseCase    *report.GetCategoryDistributionUseCase
	incomeVsExpenseUseCase *report.GetIncomeVsExpenseUseCase
	trendUseCase           *report.GetTrendAnalysisUseCase
}

// NewReportController creates a new report controller instance.
func NewReportController(
	byTimeUseCase *report.GetReportByTimeUseCase,
	distributionUseCase *report.GetCategoryDistributionUseCase,
	incomeVsExpenseUseCase *report.GetIncomeVsExpenseUseCase,
	trendUseCase *report.GetTrendAnalysisUseCase,
) *ReportController {
	return &ReportController{
		byTimeUseCase:          byTimeUseCase,
		distributionUseCase:    distributionUseCase,
		incomeVsExpenseUseCase: incomeVsExpenseUseCase,
		trendUseCase:           trendUseCase,
	}
}

// ByTime handles GET /reports/by-time requests.
func (c *ReportController) ByTime(ctx *gin.Context) {
	dateRange, ok := c.bindRange(ctx)
	if !ok {
		return
	}

	output, err := c.byTimeUseCase.Execute(ctx.Request.Context(), dateRange)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, output)
}

// CategoryDistribution handles GET /reports/category-distribution requests.
func (c *ReportController) CategoryDistribution(ctx *gin.Context) {
	dateRange, ok := c.bindRange(ctx)
	if !ok {
		return
	}

	output, err := c.distributionUseCase.Execute(ctx.Request.Context(), dateRange)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, output)
}

// IncomeVsExpense handles GET /reports/income-vs-expense requests.
func (c *ReportController) IncomeVsExpense(ctx *gin.Context) {
	dateRange, ok := c.bindRange(ctx)
	if !ok {
		return
	}

	output, err := c.incomeVsExpenseUseCase.Execute(ctx.Request.Context(), dateRange)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, output)
}

// Trends handles GET /reports/trends requests.
func (c *ReportController) Trends(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var query dto.TrendQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, "Invalid query parameters: "+err.Error(), "")
		return
	}

	startDate, endDate, ok := parseRange(ctx, query.StartDate, query.EndDate)
	if !ok {
		return
	}

	granularity := entity.GranularityMonthly
	if query.Granularity != "" {
		granularity = entity.Granularity(strings.ToUpper(query.Granularity))
	}

	output, err := c.trendUseCase.Execute(ctx.Request.Context(), report.GetTrendAnalysisInput{
		UserID:      userID,
		Granularity: granularity,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, output)
}

// bindRange reads the authenticated user and the start_date/end_date query parameters.
func (c *ReportController) bindRange(ctx *gin.Context) (report.DateRange, bool) {
	userID, ok := requireUser(ctx)
	if !ok {
		return report.DateRange{}, false
	}

	var query dto.ReportQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, "Invalid query parameters: "+err.Error(), "")
		return report.DateRange{}, false
	}

	startDate, endDate, ok := parseRange(ctx, query.StartDate, query.EndDate)
	if !ok {
		return report.DateRange{}, false
	}

	return report.DateRange{UserID: userID, StartDate: startDate, EndDate: endDate}, true
}

func parseRange(ctx *gin.Context, start, end string) (time.Time, time.Time, bool) {
	if start == "" {
		badRequest(ctx, "start_date is required", string(domainerror.ErrCodeMissingStartDate))
		return time.Time{}, time.Time{}, false
	}
	if end == "" {
		badRequest(ctx, "end_date is required", string(domainerror.ErrCodeMissingEndDate))
		return time.Time{}, time.Time{}, false
	}

	startDate, err := dto.ParseDate(start)
	if err != nil {
		badRequest(ctx, "Invalid start_date format, expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidDateFormat))
		return time.Time{}, time.Time{}, false
	}
	endDate, err := dto.ParseDate(end)
	if err != nil {
		badRequest(ctx, "Invalid end_date format, expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidDateFormat))
		return time.Time{}, time.Time{}, false
	}

	return startDate, endDate, true
}
