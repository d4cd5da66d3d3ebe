package api

import (
	"errors"
	"net/http"

	"fitting-scheduler/internal/domain/schedule"
	"fitting-scheduler/internal/domain/user"
	reqdto "fitting-scheduler/internal/handler/dto/request"
	resdto "fitting-scheduler/internal/handler/dto/response"
	"fitting-scheduler/internal/handler/httperr"
	"fitting-scheduler/internal/handler/middleware"
	"fitting-scheduler/internal/usecase/commands"
	"fitting-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCmds  commands.BookingCommands
	scheduleCmds commands.ScheduleCommands
	q            queries.ScheduleQueries
}

func NewBookingHandler(
	bookingCmds commands.BookingCommands,
	scheduleCmds commands.ScheduleCommands,
	q queries.ScheduleQueries,
) *BookingHandler {
	return &BookingHandler{
		bookingCmds:  bookingCmds,
		scheduleCmds: scheduleCmds,
		q:            q,
	}
}

// @Summary Reserve a slot
// @Description Book a slot for the authenticated customer; exactly one of N concurrent attempts wins
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.ReserveRequest true "Reservation"
// @Success 201 {object} resdto.ScheduleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) Reserve(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req reqdto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.bookingCmds.Reserve(c.Request.Context(), actor.ID, commands.ReserveRequest{
		SlotID:   req.SlotID,
		Products: req.Products,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
		case errors.Is(err, commands.ErrSlotInPast):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Slot start is in the past"})
		case errors.Is(err, commands.ErrSlotAlreadyBooked):
			c.JSON(http.StatusConflict, gin.H{"error": "Slot already booked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, resdto.FromScheduleView(result.Schedule))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.ScheduleResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		if errors.Is(err, queries.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromScheduleView(view))
}

// @Summary List bookings
// @Description Customers list their own bookings; owners the bookings against their slots
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ScheduleListResponse
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var (
		items []*queries.ScheduleListItem
		err   error
	)
	switch actor.Role {
	case user.RoleOwner:
		items, err = h.q.ListByOwner(c.Request.Context(), actor.ID)
	case user.RoleAdmin:
		// Admins scope by explicit owner_id; listing the whole system is not
		// a supported read.
		ownerID, perr := uuid.Parse(c.Query("owner_id"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
			return
		}
		items, err = h.q.ListByOwner(c.Request.Context(), ownerID)
	default:
		items, err = h.q.ListByCustomer(c.Request.Context(), actor.ID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromScheduleListItems(items))
}

// @Summary Change booking status
// @Description Drive the booking lifecycle; cancellation frees the slot
// @Tags bookings
// @Accept json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.ChangeStatusRequest true "Target status"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req reqdto.ChangeStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err = h.scheduleCmds.ChangeStatus(c.Request.Context(), actor, id, schedule.Status(req.Status))
	if err != nil {
		abortScheduleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Reschedule booking
// @Description Atomically move a booking to another unbooked future slot of the same owner
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.RescheduleRequest true "New slot"
// @Success 200 {object} resdto.ScheduleResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/reschedule [post]
func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking id", nil)
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req reqdto.RescheduleRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view, err := h.scheduleCmds.Reschedule(c.Request.Context(), actor, id, req.NewSlotID)
	if err != nil {
		abortScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromScheduleView(view))
}

func abortScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrScheduleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, commands.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
	case errors.Is(err, commands.ErrTransitionForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Transition not allowed for this actor"})
	case errors.Is(err, commands.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid status transition"})
	case errors.Is(err, commands.ErrSlotAlreadyBooked):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot already booked"})
	case errors.Is(err, commands.ErrSlotOwnerMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "New slot belongs to a different owner"})
	case errors.Is(err, commands.ErrSlotInPast):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot start is in the past"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
