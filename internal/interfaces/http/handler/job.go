package handler

import (
	"context"

	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/interfaces/http/dto"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JobTransitioner runs a status transition with its automations
type JobTransitioner interface {
	Transition(ctx context.Context, cmd appproduction.TransitionCommand) (*appproduction.TransitionResult, error)
}

// JobHandler exposes the job workflow endpoints
type JobHandler struct {
	BaseHandler
	transitioner JobTransitioner
}

// NewJobHandler creates a JobHandler
func NewJobHandler(transitioner JobTransitioner) *JobHandler {
	return &JobHandler{transitioner: transitioner}
}

// RegisterRoutes mounts the job routes under the API group
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	jobs.POST("/:id/transition", h.Transition)
}

// Transition godoc
// @Summary      Change a job status
// @Description  Persists the new status, then books powder consumption, issues the
// @Description  automatic invoice and notifies the client as the transition requires.
// @Description  Automation failures are returned as warnings with a 200.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID"
// @Param        X-User-ID   header string false "Acting user ID"
// @Param        id   path string true "Job ID"
// @Param        body body dto.TransitionJobRequest true "Target status"
// @Success      200 {object} dto.Response{data=dto.TransitionJobResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /jobs/{id}/transition [post]
func (h *JobHandler) Transition(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	var req dto.TransitionJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.transitioner.Transition(c.Request.Context(), appproduction.TransitionCommand{
		TenantID:     middleware.GetTenantID(c),
		JobID:        jobID,
		TargetStatus: req.Status,
		ActorID:      middleware.GetUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.NewTransitionJobResponse(result))
}
