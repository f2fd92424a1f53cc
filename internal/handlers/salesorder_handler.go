package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"atlascrm/internal/pdf"
	"atlascrm/internal/services"
)

type SalesOrderHandler struct {
	Orders *services.SalesOrderService
	PDF    pdf.Generator
}

func NewSalesOrderHandler(orders *services.SalesOrderService, gen pdf.Generator) *SalesOrderHandler {
	return &SalesOrderHandler{Orders: orders, PDF: gen}
}

// Create exists only to refuse. Sales orders come into existence through
// quotation conversion and nowhere else; this is a deliberate interface
// invariant, so the payload is never read.
func (h *SalesOrderHandler) Create(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"error": "manual sales order creation is not allowed, use quotation conversion",
	})
}

func (h *SalesOrderHandler) List(c *gin.Context) {
	limit, offset := pageParams(c)
	orders, err := h.Orders.List(getPrincipal(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	o, err := h.Orders.Get(getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *SalesOrderHandler) UpdateStatus(c *gin.Context) {
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
	o, err := h.Orders.UpdateStatus(getPrincipal(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// ServePDF renders the sales order as a printable document.
func (h *SalesOrderHandler) ServePDF(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	o, err := h.Orders.Get(getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := h.PDF.GenerateOrder(pdf.OrderData{
		Number:        o.Number,
		Customer:      fmt.Sprintf("Customer #%d", o.CustomerID),
		Total:         o.Total,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		CreatedAt:     o.CreatedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, o.Number+".pdf")
}

// MarkPaid flips the payment axis to paid.
func (h *SalesOrderHandler) MarkPaid(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	o, err := h.Orders.MarkPaid(getPrincipal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
