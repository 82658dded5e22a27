// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/ledger/internal/application/usecase/expense"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
)

// ExpenseController handles expense endpoints.
type ExpenseController struct {
	listUseCase   *expense.ListExpensesUseCase
	createUseCase *expense.CreateExpenseUseCase
	getUseCase    *expense.GetExpenseUseCase
	updateUseCase *expense.UpdateExpenseUseCase
	deleteUseCase *expense.DeleteExpenseUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	listUseCase *expense.ListExpensesUseCase,
	createUseCase *expense.CreateExpenseUseCase,
	getUseCase *expense.GetExpenseUseCase,
	updateUseCase *expense.UpdateExpenseUseCase,
	deleteUseCase *expense.DeleteExpenseUseCase,
) *ExpenseController {
	return &ExpenseController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /expenses requests.
func (c *ExpenseController) List(ctx *gin.Context) {
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

	output, err := c.listUseCase.Execute(ctx.Request.Context(), expense.ListExpensesInput{
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

	ctx.JSON(http.StatusOK, dto.ToExpenseListResponse(output))
}

// Create handles POST /expenses requests.
func (c *ExpenseController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), string(domainerror.ErrCodeMissingExpenseFields))
		return
	}

	expenseDate, err := dto.ParseDate(req.ExpenseDate)
	if err != nil {
		badRequest(ctx, "Invalid expense_date format, expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidExpenseDate))
		return
	}
	categoryID, _ := dto.ParseOptionalUUID(req.CategoryID)

	output, err := c.createUseCase.Execute(ctx.Request.Context(), expense.CreateExpenseInput{
		UserID:         userID,
		CategoryID:     categoryID,
		Amount:         req.Amount,
		ExpenseDate:    expenseDate,
		Note:           req.Note,
		IsRecurring:    req.IsRecurring,
		RecurrenceUnit: entity.RecurrenceUnit(req.RecurrenceUnit),
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToExpenseResponse(output.Expense))
}

// Get handles GET /expenses/:id requests.
func (c *ExpenseController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(ctx, "expense")
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), expense.GetExpenseInput{
		UserID:    userID,
		ExpenseID: expenseID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(output))
}

// Update handles PATCH /expenses/:id requests.
func (c *ExpenseController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(ctx, "expense")
	if !ok {
		return
	}

	var req dto.UpdateExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body: "+err.Error(), "")
		return
	}

	input := expense.UpdateExpenseInput{
		UserID:        userID,
		ExpenseID:     expenseID,
		Amount:        req.Amount,
		ClearCategory: req.ClearCategory,
		Note:          req.Note,
		IsRecurring:   req.IsRecurring,
	}

	if req.ExpenseDate != nil {
		expenseDate, err := dto.ParseDate(*req.ExpenseDate)
		if err != nil {
			badRequest(ctx, "Invalid expense_date format, expected YYYY-MM-DD", string(domainerror.ErrCodeInvalidExpenseDate))
			return
		}
		input.ExpenseDate = &expenseDate
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

	ctx.JSON(http.StatusOK, dto.ToExpenseResponse(output.Expense))
}

// Delete handles DELETE /expenses/:id requests.
func (c *ExpenseController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(ctx, "expense")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), expense.DeleteExpenseInput{
		UserID:    userID,
		ExpenseID: expenseID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
