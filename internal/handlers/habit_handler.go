package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
	"fintrack/internal/services"
)

// HabitHandler handles habit-related requests.
type HabitHandler struct {
	habitService services.HabitServicer
	auditService services.AuditServicer
}

// NewHabitHandler creates a new HabitHandler.
func NewHabitHandler(habitService services.HabitServicer, auditService services.AuditServicer) *HabitHandler {
	return &HabitHandler{habitService: habitService, auditService: auditService}
}

// HabitRequest is the payload of both create and update.
type HabitRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=500"`
	Frequency   string `json:"frequency" binding:"required,habit_frequency"`
}

func (r HabitRequest) fields() services.HabitFields {
	return services.HabitFields{
		Name:        r.Name,
		Description: r.Description,
		Frequency:   models.HabitFrequency(r.Frequency),
	}
}

// ListHabits returns every habit of the caller
// @Summary     List habits
// @Tags        habits
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Habit
// @Failure     401 {object} ErrorResponse "No token"
// @Failure     403 {object} ErrorResponse "Invalid token"
// @Router      /api/habits [get]
func (h *HabitHandler) ListHabits(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	habits, err := h.habitService.List(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

// CreateHabit stores a new habit for the caller
// @Summary     Create habit
// @Tags        habits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body HabitRequest true "Habit"
// @Success     201 {object} models.Habit
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /api/habits [post]
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req HabitRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	habit, err := h.habitService.Create(c.Request.Context(), id, req.fields())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), id.UserID, "CREATE_HABIT", "habit", habit.ID, c.ClientIP(),
		map[string]interface{}{"name": habit.Name, "frequency": habit.Frequency})

	c.JSON(http.StatusCreated, habit)
}

// GetHabit returns one habit of the caller
// @Summary     Get habit
// @Tags        habits
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Habit ID"
// @Success     200 {object} models.Habit
// @Failure     404 {object} ErrorResponse "Habit not found"
// @Router      /api/habits/{id} [get]
func (h *HabitHandler) GetHabit(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	habit, err := h.habitService.Get(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

// UpdateHabit replaces a habit of the caller
// @Summary     Update habit
// @Tags        habits
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string       true "Habit ID"
// @Param       request body HabitRequest true "Habit"
// @Success     200 {object} models.Habit
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Habit not found"
// @Router      /api/habits/{id} [put]
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req HabitRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	habit, err := h.habitService.Update(c.Request.Context(), id, c.Param("id"), req.fields())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), id.UserID, "UPDATE_HABIT", "habit", habit.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, habit)
}

// DeleteHabit permanently removes a habit of the caller
// @Summary     Delete habit
// @Tags        habits
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Habit ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Habit not found"
// @Router      /api/habits/{id} [delete]
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	habitID := c.Param("id")
	if err := h.habitService.Delete(c.Request.Context(), id, habitID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), id.UserID, "DELETE_HABIT", "habit", habitID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Habit deleted successfully"})
}
