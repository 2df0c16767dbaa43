package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/service"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
	"github.com/applepeerke/fishing-sub000/pkg/response"
)

// SimulationHandler wires HTTP endpoints to the simulation service.
type SimulationHandler struct {
	service *service.SimulationService
}

// NewSimulationHandler creates a new handler.
func NewSimulationHandler(svc *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: svc}
}

// Start godoc
// @Summary Start a simulation run
// @Description Queue an asynchronous run over the persisted or a synthetic population
// @Tags Simulation
// @Accept json
// @Produce json
// @Param payload body models.SimulationParams true "Simulation parameters"
// @Success 202 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /simulations [post]
func (h *SimulationHandler) Start(c *gin.Context) {
	var params models.SimulationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid simulation parameters"))
		return
	}

	run, err := h.service.StartRun(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, run, nil)
}

// List godoc
// @Summary List simulation runs
// @Tags Simulation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /simulations [get]
func (h *SimulationHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListRuns(), nil)
}

// Get godoc
// @Summary Get one simulation run
// @Tags Simulation
// @Produce json
// @Param id path string true "Run id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /simulations/{id} [get]
func (h *SimulationHandler) Get(c *gin.Context) {
	run, err := h.service.GetRun(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// Export godoc
// @Summary Export a run report
// @Description Download the report of a completed run as csv or pdf
// @Tags Simulation
// @Produce octet-stream
// @Param id path string true "Run id"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /simulations/{id}/export [get]
func (h *SimulationHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	out, contentType, err := h.service.ExportRun(c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("simulation-%s.%s", c.Param("id"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, out)
}
