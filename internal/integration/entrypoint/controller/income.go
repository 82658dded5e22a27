package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/income"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// IncomeController handles income endpoints.
type IncomeController struct {
	listUseCase   *income.ListIncomesUseCase
	createUseCase *income.CreateIncomeUseCase
	getUseCase    *income.GetIncomeUseCase
	updateUseCase *income.UpdateIncomeUseCase
	deleteUseCase *income.DeleteIncomeUseCase
}

// NewIncomeController creates a new income controller instance.
func NewIncomeController(
	listUseCase *income.ListIncomesUseCase,
	createUseCase *income.CreateIncomeUseCase,
	getUseCase *income.GetIncomeUseCase,
	updateUseCase *income.UpdateIncomeUseCase,
	deleteUseCase *income.DeleteIncomeUseCase,
) *IncomeController {
	return &IncomeController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /incomes requests.
func (c *IncomeController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var query dto.ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, "Invalid query parameters: "+err.Error(), "")
		return
	}

	startDate, err := dto.ParseOptionalDate(query.StartDate)
	if err != nil {
		badRequest(ctx, "Invalid start_date format, expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidDateFormat))
		return
	}
	endDate, err := dto.ParseOptionalDate(query.EndDate)
	if err != nil {
		badRequest(ctx, "Invalid end_date format, expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidDateFormat))
		return
	}
	categoryID, _ := dto.ParseOptionalUUID(&query.CategoryID)

	output, err := c.listUseCase.Execute(ctx.Request.Context(), income.ListIncomesInput{
		UserID:     userID,
		StartDate:  startDate,
		EndDate:    endDate,
		CategoryID: categoryID,
		Page:       query.Page,
		Limit:      query.Limit,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToIncomeListResponse(output))
}

// Create handles POST /incomes requests.
func (c *IncomeController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateIncomeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingIncomeFields))
		return
	}

	incomeDate, err := dto.ParseDate(req.IncomeDate)
	if err != nil {
		badRequest(ctx, "Invalid income_date format, expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidIncomeDate))
		return
	}
	categoryID, _ := dto.ParseOptionalUUID(req.CategoryID)

	output, err := c.createUseCase.Execute(ctx.Request.Context(), income.CreateIncomeInput{
		UserID:         userID,
		CategoryID:     categoryID,
		Amount:         req.Amount,
		IncomeDate:     incomeDate,
		Note:           req.Note,
		IsRecurring:    req.IsRecurring,
		RecurrenceUnit: entity.RecurrenceUnit(req.RecurrenceUnit),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToIncomeResponse(output))
}

// Get handles GET /incomes/:id requests.
func (c *IncomeController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	incomeID, ok := parseIDParam(ctx, "income")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), income.GetIncomeInput{
		UserID:   userID,
		IncomeID: incomeID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToIncomeResponse(output))
}

// Update handles PATCH /incomes/:id requests.
func (c *IncomeController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	incomeID, ok := parseIDParam(ctx, "income")
	if !ok {
		return
	}

	var req dto.UpdateIncomeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), "")
		return
	}

	input := income.UpdateIncomeInput{
		UserID:        userID,
		IncomeID:      incomeID,
		Amount:        req.Amount,
		ClearCategory: req.ClearCategory,
		Note:          req.Note,
		IsRecurring:   req.IsRecurring,
	}

	if req.IncomeDate != nil {
		incomeDate, err := dto.ParseDate(*req.IncomeDate)
		if err != nil {
			badRequest(ctx, "Invalid income_date format, expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidIncomeDate))
			return
		}
		input.IncomeDate = &incomeDate
	}
	input.CategoryID, _ = dto.ParseOptionalUUID(req.CategoryID)
	if req.RecurrenceUnit != nil {
		unit := entity.RecurrenceUnit(*req.RecurrenceUnit)
		input.RecurrenceUnit = &unit
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToIncomeResponse(output))
}

// Delete handles DELETE /incomes/:id requests.
func (c *IncomeController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	incomeID, ok := parseIDParam(ctx, "income")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), income.DeleteIncomeInput{
		UserID:   userID,
		IncomeID: incomeID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
