package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/services"
)

type LeadHandler struct {
	Pipeline   *services.PipelineService
	Conversion *services.ConversionService
}

func NewLeadHandler(pipeline *services.PipelineService, conversion *services.ConversionService) *LeadHandler {
	return &LeadHandler{Pipeline: pipeline, Conversion: conversion}
}

// @Summary      Create a pipeline record
// @Tags         leads
// @Accept       json
// @Produce      json
// @Router       /leads [post]
func (h *LeadHandler) Create(c *gin.Context) {
	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Pipeline.Create(getPrincipal(c), &lead); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	leads, err := h.Pipeline.List(getPrincipal(c), authz.DomainLeads, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

func (h *LeadHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	lead, err := h.Pipeline.Get(getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

type updateFieldRequest struct {
	Field string `json:"field" example:"note"`
	Value string `json:"value" example:"called back"`
}

// UpdateField mutates one field of the record, subject to the field
// permission policy.
func (h *LeadHandler) UpdateField(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Field == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field and value are required"})
		return
	}
	lead, err := h.Pipeline.UpdateField(getPrincipal(c), id, req.Field, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

type updateStatusRequest struct {
	Status string `json:"status" example:"lead_contacted"`
}

func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	lead, err := h.Pipeline.UpdateField(getPrincipal(c), id, "status", req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

type assignRequest struct {
	AssignedTo int `json:"assigned_to" example:"7"`
}

func (h *LeadHandler) Assign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lead, err := h.Pipeline.Assign(getPrincipal(c), id, req.AssignedTo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.Pipeline.Delete(getPrincipal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConvertToOpportunity promotes a qualified lead into the opportunity phase.
func (h *LeadHandler) ConvertToOpportunity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	lead, err := h.Conversion.ConvertLeadToOpportunity(c.Request.Context(), getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}
