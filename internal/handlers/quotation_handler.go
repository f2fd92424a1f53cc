package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atlascrm/internal/pdf"
	"atlascrm/internal/services"
)

type QuotationHandler struct {
	Quotations *services.QuotationService
	Conversion *services.ConversionService
	PDF        pdf.Generator
}

func NewQuotationHandler(quotations *services.QuotationService, conversion *services.ConversionService, gen pdf.Generator) *QuotationHandler {
	return &QuotationHandler{Quotations: quotations, Conversion: conversion, PDF: gen}
}

func (h *QuotationHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	quotations, err := h.Quotations.List(getPrincipal(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotations)
}

func (h *QuotationHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	q, err := h.Quotations.Get(getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// GetByLead looks up the quotation spawned by a given pipeline record.
func (h *QuotationHandler) GetByLead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	q, err := h.Quotations.GetByLead(getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *QuotationHandler) Submit(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	q, err := h.Quotations.Submit(getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

type reviewRequest struct {
	Decision string `json:"decision" example:"approve"` // approve | reject
}

func (h *QuotationHandler) Review(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Decision != "approve" && req.Decision != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be approve or reject"})
		return
	}
	q, err := h.Quotations.Review(getPrincipal(c), id, req.Decision == "approve")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// ConvertToSalesOrder is the only way a sales order comes into existence.
func (h *QuotationHandler) ConvertToSalesOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	o, err := h.Conversion.ConvertToSalesOrder(c.Request.Context(), getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// ServePDF renders the quotation as a printable document.
func (h *QuotationHandler) ServePDF(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	q, err := h.Quotations.Get(getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := h.PDF.GenerateQuotation(pdf.QuotationData{
		Number:    q.Number,
		Customer:  fmt.Sprintf("Customer #%d", q.CustomerID),
		Total:     q.Total,
		Status:    q.Status,
		CreatedAt: q.CreatedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, q.Number+".pdf")
}
