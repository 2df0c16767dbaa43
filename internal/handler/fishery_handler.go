package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/service"
	appErrors "github.com/applepeerke/fishing-sub000/pkg/errors"
	"github.com/applepeerke/fishing-sub000/pkg/response"
)

// FisheryHandler wires HTTP endpoints to the fishery service.
type FisheryHandler struct {
	service *service.FisheryService
}

// NewFisheryHandler creates a new handler.
func NewFisheryHandler(svc *service.FisheryService) *FisheryHandler {
	return &FisheryHandler{service: svc}
}

// CreateSpecies godoc
// @Summary Create a fish species
// @Tags Fishery
// @Accept json
// @Produce json
// @Param payload body models.FishSpecies true "Species"
// @Success 201 {object} response.Envelope
// @Router /fishspecies [post]
func (h *FisheryHandler) CreateSpecies(c *gin.Context) {
	var species models.FishSpecies
	if err := c.ShouldBindJSON(&species); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid species payload"))
		return
	}
	if err := h.service.CreateSpecies(c.Request.Context(), &species); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, species)
}

// ListSpecies godoc
// @Summary List fish species
// @Tags Fishery
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fishspecies [get]
func (h *FisheryHandler) ListSpecies(c *gin.Context) {
	skip, limit := pageParams(c)
	species, err := h.service.ListSpecies(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, species, nil)
}

// DeleteSpecies godoc
// @Summary Delete a fish species
// @Tags Fishery
// @Param id path string true "Species id"
// @Success 204 {object} response.Envelope
// @Router /fishspecies/{id} [delete]
func (h *FisheryHandler) DeleteSpecies(c *gin.Context) {
	if err := h.service.DeleteSpecies(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateFish godoc
// @Summary Create a fish
// @Tags Fishery
// @Accept json
// @Produce json
// @Param payload body models.Fish true "Fish"
// @Success 201 {object} response.Envelope
// @Router /fish [post]
func (h *FisheryHandler) CreateFish(c *gin.Context) {
	var fish models.Fish
	if err := c.ShouldBindJSON(&fish); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid fish payload"))
		return
	}
	if err := h.service.CreateFish(c.Request.Context(), &fish); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fish)
}

// ListFish godoc
// @Summary List fish
// @Tags Fishery
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fish [get]
func (h *FisheryHandler) ListFish(c *gin.Context) {
	skip, limit := pageParams(c)
	fish, err := h.service.ListFish(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fish, nil)
}

// DeleteFish godoc
// @Summary Delete a fish
// @Tags Fishery
// @Param id path string true "Fish id"
// @Success 204 {object} response.Envelope
// @Router /fish/{id} [delete]
func (h *FisheryHandler) DeleteFish(c *gin.Context) {
	if err := h.service.DeleteFish(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateWater godoc
// @Summary Create a fishing water
// @Tags Fishery
// @Accept json
// @Produce json
// @Param payload body models.FishingWater true "Fishing water"
// @Success 201 {object} response.Envelope
// @Router /fishingwaters [post]
func (h *FisheryHandler) CreateWater(c *gin.Context) {
	var water models.FishingWater
	if err := c.ShouldBindJSON(&water); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid fishing water payload"))
		return
	}
	if err := h.service.CreateWater(c.Request.Context(), &water); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, water)
}

// ListWaters godoc
// @Summary List fishing waters
// @Tags Fishery
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fishingwaters [get]
func (h *FisheryHandler) ListWaters(c *gin.Context) {
	skip, limit := pageParams(c)
	waters, err := h.service.ListWaters(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, waters, nil)
}

// DeleteWater godoc
// @Summary Delete a fishing water
// @Tags Fishery
// @Param id path string true "Water id"
// @Success 204 {object} response.Envelope
// @Router /fishingwaters/{id} [delete]
func (h *FisheryHandler) DeleteWater(c *gin.Context) {
	if err := h.service.DeleteWater(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateFisherman godoc
// @Summary Create a fisherman
// @Tags Fishery
// @Accept json
// @Produce json
// @Param payload body models.Fisherman true "Fisherman"
// @Success 201 {object} response.Envelope
// @Router /fishermen [post]
func (h *FisheryHandler) CreateFisherman(c *gin.Context) {
	var fisherman models.Fisherman
	if err := c.ShouldBindJSON(&fisherman); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusUnprocessableEntity, "invalid fisherman payload"))
		return
	}
	if err := h.service.CreateFisherman(c.Request.Context(), &fisherman); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fisherman)
}

// ListFishermen godoc
// @Summary List fishermen
// @Tags Fishery
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fishermen [get]
func (h *FisheryHandler) ListFishermen(c *gin.Context) {
	skip, limit := pageParams(c)
	fishermen, err := h.service.ListFishermen(c.Request.Context(), skip, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fishermen, nil)
}
