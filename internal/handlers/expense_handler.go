package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// ExpenseRequest is the payload of both create and update. Update replaces
// every field, so omitted notes are cleared.
type ExpenseRequest struct {
	Title    string  `json:"title" binding:"required,notblank,max=200"`
	Amount   float64 `json:"amount" binding:"required"`
	Category string  `json:"category" binding:"required,notblank,max=100"`
	Date     string  `json:"date" binding:"required,calendar_date"`
	Notes    string  `json:"notes" binding:"max=1000"`
}

func (r ExpenseRequest) fields() (services.ExpenseFields, error) {
	date, err := models.ParseDate(r.Date)
	if err != nil {
		return services.ExpenseFields{}, apperrors.WithMessage(apperrors.ErrValidation, "date must be a date (YYYY-MM-DD)")
	}
	return services.ExpenseFields{
		Title:    r.Title,
		Amount:   r.Amount,
		Category: r.Category,
		Date:     date,
		Notes:    r.Notes,
	}, nil
}

// ExpenseResponse is an expense as returned to clients.
type ExpenseResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Date      string    `json:"date"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toExpenseResponse(e *models.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		Date:      e.Date.UTC().Format(models.DateLayout),
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// ListExpenses returns every expense of the caller
// @Summary     List expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  ExpenseResponse
// @Failure     401 {object} ErrorResponse "No token"
// @Failure     403 {object} ErrorResponse "Invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /api/expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.List(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		resp = append(resp, toExpenseResponse(&expenses[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateExpense stores a new expense for the caller
// @Summary     Create expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense"
// @Success     201 {object} ExpenseResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "No token"
// @Failure     403 {object} ErrorResponse "Invalid token"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /api/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	fields, err := req.fields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.Create(c.Request.Context(), id, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), id.UserID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"title": expense.Title, "amount": expense.Amount, "category": expense.Category})

	c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

// GetExpense returns one expense of the caller
// @Summary     Get expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} ExpenseResponse
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /api/expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense replaces an expense of the caller
// @Summary     Update expense
// @Description Replaces title, amount, category, date and notes
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string         true "Expense ID"
// @Param       request body ExpenseRequest true "Expense"
// @Success     200 {object} ExpenseResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /api/expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}
	fields, err := req.fields()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.Update(c.Request.Context(), id, c.Param("id"), fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), id.UserID, "UPDATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"title": expense.Title, "amount": expense.Amount, "category": expense.Category})

	c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense permanently removes an expense of the caller
// @Summary     Delete expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /api/expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID := c.Param("id")
	if err := h.expenseService.Delete(c.Request.Context(), id, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), id.UserID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

// SummarizeExpenses totals the caller's expenses per category
// @Summary     Expense totals by category
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  services.CategoryTotal
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /api/summary/expenses [get]
func (h *ExpenseHandler) SummarizeExpenses(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.expenseService.Summarize(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}
