package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/ledger/internal/integration/entrypoint/middleware"
)

// requireUser returns the authenticated user or writes a 401 response.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses the :id path parameter or writes a 400 response.
func parseIDParam(ctx *gin.Context, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + resource + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// badRequest writes a 400 response with the given code.
func badRequest(ctx *gin.Context, message string, code string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleError maps domain errors to HTTP responses.
func handleError(ctx *gin.Context, err error) {
	status, code, message := statusForError(err)

	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"error", err,
		)
		message = "An internal error occurred"
	} else if status == http.StatusConflict {
		slog.Warn("request conflicted",
			"method", ctx.Request.Method,
			"path", ctx.FullPath(),
			"code", code,
			"error", err,
		)
	}

	ctx.JSON(status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// statusForError returns the HTTP status, error code and client message for err.
func statusForError(err error) (int, string, string) {
	var (
		budgetErr  *domainerror.BudgetError
		expenseErr *domainerror.ExpenseError
		incomeErr  *domainerror.IncomeError
		reportErr  *domainerror.ReportError
		authErr    *domainerror.AuthError
	)

	switch {
	case errors.As(err, &budgetErr):
		return budgetStatus(budgetErr.Code), string(budgetErr.Code), budgetErr.Message
	case errors.As(err, &expenseErr):
		return expenseStatus(expenseErr.Code), string(expenseErr.Code), expenseErr.Message
	case errors.As(err, &incomeErr):
		return incomeStatus(incomeErr.Code), string(incomeErr.Code), incomeErr.Message
	case errors.As(err, &reportErr):
		if reportErr.Code == domainerror.ErrCodeReportInternalError {
			return http.StatusInternalServerError, string(reportErr.Code), reportErr.Message
		}
		return http.StatusBadRequest, string(reportErr.Code), reportErr.Message
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, string(authErr.Code), authErr.Message
	case domainerror.IsRetryable(err):
		return http.StatusConflict, string(domainerror.ErrCodeBudgetVersionConflict), domainerror.ErrBudgetVersionConflict.Error()
	default:
		return http.StatusInternalServerError, "", err.Error()
	}
}

func budgetStatus(code domainerror.BudgetErrorCode) int {
	switch code {
	case domainerror.ErrCodeBudgetNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeBudgetAlreadyExists, domainerror.ErrCodeBudgetVersionConflict:
		return http.StatusConflict
	case domainerror.ErrCodeNotAuthorizedBudget:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidBudgetLimit,
		domainerror.ErrCodeInvalidAlertThreshold,
		domainerror.ErrCodeInvalidBudgetPeriod,
		domainerror.ErrCodeBudgetCategoryInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func expenseStatus(code domainerror.ExpenseErrorCode) int {
	switch code {
	case domainerror.ErrCodeExpenseNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedExpense:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidExpenseAmount,
		domainerror.ErrCodeInvalidExpenseDate,
		domainerror.ErrCodeInvalidExpenseRecurrence,
		domainerror.ErrCodeExpenseCategoryInvalid,
		domainerror.ErrCodeExpenseNoteTooLong,
		domainerror.ErrCodeMissingExpenseFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func incomeStatus(code domainerror.IncomeErrorCode) int {
	switch code {
	case domainerror.ErrCodeIncomeNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedIncome:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidIncomeAmount,
		domainerror.ErrCodeInvalidIncomeDate,
		domainerror.ErrCodeInvalidIncomeRecurrence,
		domainerror.ErrCodeIncomeCategoryInvalid,
		domainerror.ErrCodeIncomeNoteTooLong,
		domainerror.ErrCodeMissingIncomeFields:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
