package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "fitting-scheduler/internal/handler/dto/request"
	resdto "fitting-scheduler/internal/handler/dto/response"
	"fitting-scheduler/internal/handler/httperr"
	"fitting-scheduler/internal/handler/middleware"
	"fitting-scheduler/internal/usecase/commands"
	"fitting-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	cmds commands.SlotCommands
	q    queries.SlotQueries
}

func NewSlotHandler(cmds commands.SlotCommands, q queries.SlotQueries) *SlotHandler {
	return &SlotHandler{cmds: cmds, q: q}
}

// @Summary List slots
// @Description List an owner's slots; customers typically filter to available ones
// @Tags slots
// @Produce json
// @Param owner_id query string true "Owner ID"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Param available_only query bool false "Only unbooked slots"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Router /slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Query("owner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner_id"})
		return
	}

	filter := queries.SlotFilter{
		OwnerID:       ownerID,
		OnlyAvailable: c.Query("available_only") == "true",
	}
	if v := c.Query("from"); v != "" {
		t, perr := time.Parse(time.RFC3339, v)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from timestamp"})
			return
		}
		filter.From = t
	}
	if v := c.Query("to"); v != "" {
		t, perr := time.Parse(time.RFC3339, v)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to timestamp"})
			return
		}
		filter.To = t
	}

	views, err := h.q.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list slots"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotViews(views))
}

// @Summary Get slot
// @Tags slots
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 404 {object} map[string]string
// @Router /slots/{id} [get]
func (h *SlotHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot id", nil)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotView(view))
}

// @Summary Update unbooked slot
// @Tags slots
// @Accept json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param request body reqdto.UpdateSlotRequest true "Slot"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /slots/{id} [put]
func (h *SlotHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot id", nil)
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req reqdto.UpdateSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err = h.cmds.UpdateSlot(c.Request.Context(), actor.ID, id, commands.UpdateSlotRequest{
		StartsAt:    req.StartsAt,
		AutoConfirm: req.AutoConfirm,
	})
	if err != nil {
		abortSlotError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete unbooked slot
// @Tags slots
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /slots/{id} [delete]
func (h *SlotHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot id", nil)
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.cmds.DeleteSlot(c.Request.Context(), actor.ID, id); err != nil {
		abortSlotError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func abortSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
	case errors.Is(err, commands.ErrSlotNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": "Slot not owned"})
	case errors.Is(err, commands.ErrSlotImmutable):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot is booked"})
	case errors.Is(err, commands.ErrSlotTimeTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot time already taken"})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
