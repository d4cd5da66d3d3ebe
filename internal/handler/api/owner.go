package api

import (
	"errors"
	"net/http"

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

type OwnerHandler struct {
	settingsCmds    commands.SettingsCommands
	templateCmds    commands.TemplateCommands
	materializeCmds commands.MaterializeCommands
	slotCmds        commands.SlotCommands
	q               queries.OwnerQueries
}

func NewOwnerHandler(
	settingsCmds commands.SettingsCommands,
	templateCmds commands.TemplateCommands,
	materializeCmds commands.MaterializeCommands,
	slotCmds commands.SlotCommands,
	q queries.OwnerQueries,
) *OwnerHandler {
	return &OwnerHandler{
		settingsCmds:    settingsCmds,
		templateCmds:    templateCmds,
		materializeCmds: materializeCmds,
		slotCmds:        slotCmds,
		q:               q,
	}
}

// resolveOwnerID parses the :id path segment and checks the caller may act
// for that owner. Owners act only for themselves; admins for anyone.
func resolveOwnerID(c *gin.Context) (uuid.UUID, bool) {
	ownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid owner id", nil)
		return uuid.Nil, false
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		c.Abort()
		return uuid.Nil, false
	}
	if actor.Role != user.RoleAdmin && actor.ID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
		return uuid.Nil, false
	}
	return ownerID, true
}

// @Summary Upsert owner settings
// @Description Create or replace the owner's booking policy
// @Tags owners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Param request body reqdto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} resdto.SettingsResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /owners/{id}/settings [post]
func (h *OwnerHandler) UpsertSettings(c *gin.Context) {
	ownerID, ok := resolveOwnerID(c)
	if !ok {
		return
	}
	var req reqdto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err := h.settingsCmds.UpdateSettings(c.Request.Context(), ownerID, commands.UpdateSettingsRequest{
		AppointmentDurationMin: req.AppointmentDurationMin,
		AutoConfirm:            req.AutoConfirm,
	})
	if err != nil {
		if errors.Is(err, commands.ErrDomainValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.q.GetSettings(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSettingsView(view))
}

// @Summary Get owner settings
// @Tags owners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Success 200 {object} resdto.SettingsResponse
// @Failure 404 {object} map[string]string
// @Router /owners/{id}/settings [get]
func (h *OwnerHandler) GetSettings(c *gin.Context) {
	ownerID, ok := resolveOwnerID(c)
	if !ok {
		return
	}
	view, err := h.q.GetSettings(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Settings not found"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSettingsView(view))
}

// @Summary Create weekly template
// @Tags owners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Param request body reqdto.UpsertTemplateRequest true "Template"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /owners/{id}/templates [post]
func (h *OwnerHandler) CreateTemplate(c *gin.Context) {
	ownerID, ok := resolveOwnerID(c)
	if !ok {
		return
	}
	var req reqdto.UpsertTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.templateCmds.CreateTemplate(c.Request.Context(), ownerID, commands.UpsertTemplateRequest{
		DayOfWeek: req.DayOfWeek,
		Enabled:   req.Enabled,
		StartMin:  req.StartMin,
		EndMin:    req.EndMin,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template"})
		case errors.Is(err, commands.ErrDuplicateTemplateDay):
			c.JSON(http.StatusConflict, gin.H{"error": "Template already exists for this day"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

// @Summary List weekly templates
// @Tags owners
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Success 200 {array} resdto.TemplateResponse
// @Router /owners/{id}/templates [get]
func (h *OwnerHandler) ListTemplates(c *gin.Context) {
	ownerID, ok := resolveOwnerID(c)
	if !ok {
		return
	}
	views, err := h.q.ListTemplates(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates"})
		return
	}
	c.JSON(http.StatusOK, resdto.FromTemplateViews(views))
}

// @Summary Update weekly template
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Param request body reqdto.UpsertTemplateRequest true "Template"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /templates/{id} [put]
func (h *OwnerHandler) UpdateTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid template id", nil)
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	var req reqdto.UpsertTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	err = h.templateCmds.UpdateTemplate(c.Request.Context(), actor.ID, templateID, commands.UpsertTemplateRequest{
		DayOfWeek: req.DayOfWeek,
		Enabled:   req.Enabled,
		StartMin:  req.StartMin,
		EndMin:    req.EndMin,
	})
	if err != nil {
		abortTemplateError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete weekly template
// @Tags templates
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /templates/{id} [delete]
func (h *OwnerHandler) DeleteTemplate(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid template id", nil)
		return
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.templateCmds.DeleteTemplate(c.Request.Context(), actor.ID, templateID); err != nil {
		abortTemplateError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func abortTemplateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
	case errors.Is(err, commands.ErrTemplateNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": "Template not owned"})
	case errors.Is(err, commands.ErrDuplicateTemplateDay):
		c.JSON(http.StatusConflict, gin.H{"error": "Template already exists for this day"})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// @Summary Materialize slots
// @Description Expand enabled weekly templates over a date range into bookable slots
// @Tags owners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Param request body reqdto.MaterializeRequest true "Date range"
// @Success 200 {object} resdto.MaterializeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /owners/{id}/materialize [post]
func (h *OwnerHandler) Materialize(c *gin.Context) {
	ownerID, ok := resolveOwnerID(c)
	if !ok {
		return
	}
	var req reqdto.MaterializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	from, to := req.Range()
	result, err := h.materializeCmds.Materialize(c.Request.Context(), ownerID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSettingsNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Owner settings not found"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, resdto.MaterializeResponse{
		CreatedCount: result.CreatedCount,
		FailedDays:   result.FailedDays,
	})
}

// @Summary Create ad-hoc slot
// @Tags owners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Owner ID"
// @Param request body reqdto.CreateSlotRequest true "Slot"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /owners/{id}/slots [post]
func (h *OwnerHandler) CreateSlot(c *gin.Context) {
	ownerID, ok := resolveOwnerID(c)
	if !ok {
		return
	}
	var req reqdto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	id, err := h.slotCmds.CreateSlot(c.Request.Context(), ownerID, commands.CreateSlotRequest{
		StartsAt:    req.StartsAt,
		AutoConfirm: req.AutoConfirm,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSettingsNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Owner settings not found"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot"})
		case errors.Is(err, commands.ErrSlotTimeTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Slot time already taken"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}
