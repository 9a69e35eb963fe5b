package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"droply/models"
	procurementSvc "droply/services/procurement"
	"droply/utils"
)

// SubmitRFQHandler runs supplier sourcing and outreach drafting for a new
// request for quotation.
func (hb *HandlerBundle) SubmitRFQHandler(c *gin.Context) {
	var input struct {
		PartName       string    `json:"partName" binding:"required"`
		PartCategory   string    `json:"partCategory" binding:"required"`
		Specifications string    `json:"specifications"`
		Quantity       int       `json:"quantity" binding:"required,min=1"`
		NeededBy       time.Time `json:"neededBy" binding:"required"`
		ContextID      string    `json:"contextId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	rfq := &models.RFQ{
		RequesterID:    currentUserID(c),
		PartName:       input.PartName,
		PartCategory:   input.PartCategory,
		Specifications: input.Specifications,
		Quantity:       input.Quantity,
		NeededBy:       input.NeededBy.UTC(),
	}
	result, err := hb.Procurement.Process(c.Request.Context(), procurementSvc.Event{
		Type:      procurementSvc.EventRFQSubmitted,
		ContextID: input.ContextID,
		Payload:   rfq,
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "rfq submission failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RecordQuoteHandler appends a supplier quote and returns the refreshed
// comparison.
func (hb *HandlerBundle) RecordQuoteHandler(c *gin.Context) {
	var quote models.Quote
	if err := c.ShouldBindJSON(&quote); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if quote.ReceivedAt.IsZero() {
		quote.ReceivedAt = time.Now().UTC()
	}

	result, err := hb.Procurement.Process(c.Request.Context(), procurementSvc.Event{
		Type:    procurementSvc.EventQuoteReceived,
		Payload: procurementSvc.QuotePayload{RFQID: c.Param("id"), Quote: quote},
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to record quote", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRFQHandler returns one RFQ with its quotes.
func (hb *HandlerBundle) GetRFQHandler(c *gin.Context) {
	rfq, err := hb.ProcurementRepo.GetRFQ(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "rfq not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, rfq)
}

// CreateOrderHandler records a purchase order for tracking.
func (hb *HandlerBundle) CreateOrderHandler(c *gin.Context) {
	var po models.PurchaseOrder
	if err := c.ShouldBindJSON(&po); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	if po.Status == "" {
		po.Status = "placed"
	}

	if err := hb.ProcurementRepo.CreateOrder(c.Request.Context(), &po); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create order", err.Error())
		return
	}
	c.JSON(http.StatusCreated, po)
}

// CheckOrderDelayHandler runs the delay check for one order, enqueueing
// nothing: the escalation result comes back synchronously.
func (hb *HandlerBundle) CheckOrderDelayHandler(c *gin.Context) {
	result, err := hb.Procurement.Process(c.Request.Context(), procurementSvc.Event{
		Type:    procurementSvc.EventOrderDelayed,
		Payload: procurementSvc.OrderPayload{OrderID: c.Param("id")},
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "delay check failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpsertSupplierHandler creates or refreshes a supplier record.
func (hb *HandlerBundle) UpsertSupplierHandler(c *gin.Context) {
	var s models.Supplier
	if err := c.ShouldBindJSON(&s); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	if err := hb.ProcurementRepo.UpsertSupplier(c.Request.Context(), &s); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save supplier", err.Error())
		return
	}
	c.JSON(http.StatusOK, s)
}

// ReviewSupplierHandler scores one supplier's rolling performance.
func (hb *HandlerBundle) ReviewSupplierHandler(c *gin.Context) {
	result, err := hb.Procurement.Process(c.Request.Context(), procurementSvc.Event{
		Type:    procurementSvc.EventSupplierReview,
		Payload: procurementSvc.SupplierPayload{SupplierID: c.Param("id")},
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "supplier review failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateContractHandler records a supplier contract for expiry tracking.
func (hb *HandlerBundle) CreateContractHandler(c *gin.Context) {
	var contract models.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if contract.ID == "" {
		contract.ID = uuid.New().String()
	}

	if err := hb.ProcurementRepo.CreateContract(c.Request.Context(), &contract); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create contract", err.Error())
		return
	}
	c.JSON(http.StatusCreated, contract)
}

// ScanContractsHandler runs the expiry scan on demand. The same scan runs
// on a schedule from the task queue.
func (hb *HandlerBundle) ScanContractsHandler(c *gin.Context) {
	result, err := hb.Procurement.Process(c.Request.Context(), procurementSvc.Event{
		Type: procurementSvc.EventContractExpiry,
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "contract scan failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}
