package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atlascrm/internal/apperrors"
	"atlascrm/internal/authz"
	"atlascrm/internal/services"
)

type OpportunityHandler struct {
	Pipeline   *services.PipelineService
	Conversion *services.ConversionService
}

func NewOpportunityHandler(pipeline *services.PipelineService, conversion *services.ConversionService) *OpportunityHandler {
	return &OpportunityHandler{Pipeline: pipeline, Conversion: conversion}
}

func (h *OpportunityHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	opps, err := h.Pipeline.List(getPrincipal(c), authz.DomainOpportunities, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opps)
}

type convertRequest struct {
	// Optional override; when empty the record's own customer is used.
	CustomerID string `json:"customer_id" example:"12"`
}

// @Summary      Convert a Prospecting opportunity to a sales quotation
// @Tags         opportunities
// @Accept       json
// @Produce      json
// @Router       /opportunities/{id}/convert [put]
func (h *OpportunityHandler) ConvertToQuotation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req convertRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	customerID := 0
	if req.CustomerID != "" {
		customerID, err = strconv.Atoi(req.CustomerID)
		if err != nil {
			respondError(c, apperrors.Validation("customer_id must be numeric"))
			return
		}
	}

	q, err := h.Conversion.ConvertToQuotation(c.Request.Context(), getPrincipal(c), id, customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}
