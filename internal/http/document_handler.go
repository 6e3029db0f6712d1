package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/repository"
	"github.com/PanArtek/plany-app-sub000/internal/service"
)

func (h *Handler) generateAgreements(c *gin.Context) {
	revisionID, ok := pathID(c)
	if !ok {
		return
	}
	count, err := h.generator.GenerateAgreements(c.Request.Context(), revisionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": count})
}

func (h *Handler) generateOrders(c *gin.Context) {
	revisionID, ok := pathID(c)
	if !ok {
		return
	}
	count, err := h.generator.GeneratePurchaseOrders(c.Request.Context(), revisionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": count})
}

func (h *Handler) listAgreements(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	agreements, err := h.generator.ListAgreements(c.Request.Context(), projectID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreements)
}

func (h *Handler) listOrders(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	orders, err := h.generator.ListOrders(c.Request.Context(), projectID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getAgreement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	agreement, err := h.generator.GetAgreement(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreement)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.generator.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) advanceAgreementStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, valid := model.ParseAgreementStatus(req.Status)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	agreement, err := h.fulfillment.AdvanceAgreementStatus(c.Request.Context(), id, status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreement)
}

func (h *Handler) advanceOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, valid := model.ParseOrderStatus(req.Status)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	order, err := h.fulfillment.AdvanceOrderStatus(c.Request.Context(), id, status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type deliveryLineRequest struct {
	OrderLineID string `json:"order_line_id" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
}

type recordDeliveryRequest struct {
	DeliveredAt *time.Time            `json:"delivered_at"`
	Note        string                `json:"note"`
	Lines       []deliveryLineRequest `json:"lines" binding:"required"`
}

func (h *Handler) recordDelivery(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	var req recordDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.RecordDeliveryInput{
		OrderID: orderID,
		Note:    req.Note,
	}
	if req.DeliveredAt != nil {
		input.DeliveredAt = *req.DeliveredAt
	}
	for _, line := range req.Lines {
		lineID, ok := parseUUID(c, "order_line_id", line.OrderLineID)
		if !ok {
			return
		}
		quantity, ok := parseDecimal(c, "quantity", line.Quantity)
		if !ok {
			return
		}
		input.Lines = append(input.Lines, service.DeliveryLineInput{
			OrderLineID: lineID,
			Quantity:    quantity,
		})
	}

	delivery, err := h.fulfillment.RecordDelivery(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, delivery)
}

type recordExecutionRequest struct {
	Quantity   string     `json:"quantity" binding:"required"`
	Note       string     `json:"note"`
	ReportedAt *time.Time `json:"reported_at"`
}

func (h *Handler) recordExecution(c *gin.Context) {
	lineID, ok := pathID(c)
	if !ok {
		return
	}
	var req recordExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity, ok := parseDecimal(c, "quantity", req.Quantity)
	if !ok {
		return
	}

	input := service.RecordExecutionInput{
		AgreementLineID: lineID,
		Quantity:        quantity,
		Note:            req.Note,
	}
	if req.ReportedAt != nil {
		input.ReportedAt = *req.ReportedAt
	}

	execution, err := h.fulfillment.RecordExecution(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, execution)
}

func (h *Handler) listDeliveries(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}
	deliveries, err := h.fulfillment.ListDeliveries(c.Request.Context(), orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, deliveries)
}

func (h *Handler) listExecutions(c *gin.Context) {
	lineID, ok := pathID(c)
	if !ok {
		return
	}
	executions, err := h.fulfillment.ListExecutions(c.Request.Context(), lineID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, executions)
}

type addRealizationRequest struct {
	ProjectID   string     `json:"project_id" binding:"required"`
	Kind        string     `json:"kind" binding:"required"`
	Amount      string     `json:"amount" binding:"required"`
	OrderID     *string    `json:"order_id"`
	AgreementID *string    `json:"agreement_id"`
	Description string     `json:"description"`
	OccurredAt  *time.Time `json:"occurred_at"`
}

func (h *Handler) addRealization(c *gin.Context) {
	var req addRealizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	projectID, ok := parseUUID(c, "project_id", req.ProjectID)
	if !ok {
		return
	}
	kind, valid := model.ParseRealizationKind(req.Kind)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind"})
		return
	}
	amount, ok := parseDecimal(c, "amount", req.Amount)
	if !ok {
		return
	}
	orderID, ok := parseOptionalUUID(c, "order_id", req.OrderID)
	if !ok {
		return
	}
	agreementID, ok := parseOptionalUUID(c, "agreement_id", req.AgreementID)
	if !ok {
		return
	}

	input := service.AddRealizationInput{
		ProjectID:   projectID,
		Kind:        kind,
		Amount:      amount,
		OrderID:     orderID,
		AgreementID: agreementID,
		Description: req.Description,
	}
	if req.OccurredAt != nil {
		input.OccurredAt = *req.OccurredAt
	}

	entry, err := h.realizations.AddEntry(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) markRealizationPaid(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.realizations.MarkPaid(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listRealizations(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}

	var filter repository.ListFilter
	if raw := c.Query("kind"); raw != "" {
		kind, valid := model.ParseRealizationKind(raw)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind"})
			return
		}
		filter.Kind = &kind
	}
	if raw := c.Query("paid"); raw != "" {
		paid := raw == "true"
		filter.Paid = &paid
	}

	entries, err := h.realizations.List(c.Request.Context(), projectID, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
