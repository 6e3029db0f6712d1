package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PanArtek/plany-app-sub000/internal/service"
)

func parseDecimal(c *gin.Context, field, raw string) (decimal.Decimal, bool) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
		return decimal.Zero, false
	}
	return value, true
}

func parseOptionalDecimal(c *gin.Context, field string, raw *string) (*decimal.Decimal, bool) {
	if raw == nil {
		return nil, true
	}
	value, ok := parseDecimal(c, field, *raw)
	if !ok {
		return nil, false
	}
	return &value, true
}

func parseUUID(c *gin.Context, field, raw string) (uuid.UUID, bool) {
	value, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
		return uuid.Nil, false
	}
	return value, true
}

func parseOptionalUUID(c *gin.Context, field string, raw *string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	value, err := uuid.Parse(*raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field})
		return nil, false
	}
	return &value, true
}

type addPositionRequest struct {
	LibraryPositionID string `json:"library_position_id" binding:"required"`
	Quantity          string `json:"quantity" binding:"required"`
	MarkupPercent     string `json:"markup_percent"`
}

func (h *Handler) addPosition(c *gin.Context) {
	revisionID, ok := pathID(c)
	if !ok {
		return
	}
	var req addPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	libraryID, err := uuid.Parse(req.LibraryPositionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid library_position_id"})
		return
	}
	quantity, ok := parseDecimal(c, "quantity", req.Quantity)
	if !ok {
		return
	}
	markup := decimal.Zero
	if req.MarkupPercent != "" {
		if markup, ok = parseDecimal(c, "markup_percent", req.MarkupPercent); !ok {
			return
		}
	}

	position, err := h.estimates.AddPosition(c.Request.Context(), service.AddPositionInput{
		RevisionID:        revisionID,
		LibraryPositionID: libraryID,
		Quantity:          quantity,
		MarkupPercent:     markup,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, position)
}

func (h *Handler) positionView(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	position, cost, err := h.estimates.PositionView(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": position, "cost": cost})
}

type updatePositionRequest struct {
	Name          *string `json:"name"`
	Unit          *string `json:"unit"`
	Quantity      *string `json:"quantity"`
	MarkupPercent *string `json:"markup_percent"`
}

func (h *Handler) updatePosition(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quantity, ok := parseOptionalDecimal(c, "quantity", req.Quantity)
	if !ok {
		return
	}
	markup, ok := parseOptionalDecimal(c, "markup_percent", req.MarkupPercent)
	if !ok {
		return
	}

	position, err := h.estimates.UpdatePosition(c.Request.Context(), id, service.UpdatePositionInput{
		Name:          req.Name,
		Unit:          req.Unit,
		Quantity:      quantity,
		MarkupPercent: markup,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, position)
}

func (h *Handler) removePosition(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.estimates.RemovePosition(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) resetPosition(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	position, err := h.estimates.ResetPosition(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, position)
}

type setPriceRequest struct {
	Price string `json:"price" binding:"required"`
}

func (h *Handler) setLaborPrice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, ok := parseDecimal(c, "price", req.Price)
	if !ok {
		return
	}
	position, err := h.estimates.SetLaborPriceOverride(c.Request.Context(), id, price)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, position)
}

func (h *Handler) setMaterialPrice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req setPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, ok := parseDecimal(c, "price", req.Price)
	if !ok {
		return
	}
	component, err := h.estimates.SetMaterialPriceOverride(c.Request.Context(), id, price)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, component)
}

type addMaterialRequest struct {
	Name       string  `json:"name" binding:"required"`
	Unit       string  `json:"unit" binding:"required"`
	Norma      string  `json:"norma" binding:"required"`
	Price      string  `json:"price"`
	ProductID  *string `json:"product_id"`
	SupplierID *string `json:"supplier_id"`
	IsManual   bool    `json:"is_manual"`
}

func (h *Handler) addMaterial(c *gin.Context) {
	positionID, ok := pathID(c)
	if !ok {
		return
	}
	var req addMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	norma, ok := parseDecimal(c, "norma", req.Norma)
	if !ok {
		return
	}
	price := decimal.Zero
	if req.Price != "" {
		if price, ok = parseDecimal(c, "price", req.Price); !ok {
			return
		}
	}
	productID, ok := parseOptionalUUID(c, "product_id", req.ProductID)
	if !ok {
		return
	}
	supplierID, ok := parseOptionalUUID(c, "supplier_id", req.SupplierID)
	if !ok {
		return
	}

	component, err := h.estimates.AddMaterial(c.Request.Context(), positionID, service.AddMaterialInput{
		Name:       req.Name,
		Unit:       req.Unit,
		Norma:      norma,
		Price:      price,
		ProductID:  productID,
		SupplierID: supplierID,
		IsManual:   req.IsManual,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, component)
}

type updateMaterialRequest struct {
	Name  *string `json:"name"`
	Unit  *string `json:"unit"`
	Norma *string `json:"norma"`
}

func (h *Handler) updateMaterial(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	norma, ok := parseOptionalDecimal(c, "norma", req.Norma)
	if !ok {
		return
	}
	component, err := h.estimates.UpdateMaterial(c.Request.Context(), id, service.UpdateMaterialInput{
		Name:  req.Name,
		Unit:  req.Unit,
		Norma: norma,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, component)
}

func (h *Handler) removeMaterial(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.estimates.RemoveMaterial(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) resetMaterial(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	component, err := h.estimates.ResetMaterial(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, component)
}

type addLaborRequest struct {
	Description     string  `json:"description" binding:"required"`
	LaborTypeID     *string `json:"labor_type_id"`
	SubcontractorID *string `json:"subcontractor_id"`
	Rate            string  `json:"rate" binding:"required"`
	Norma           string  `json:"norma" binding:"required"`
}

func (h *Handler) addLabor(c *gin.Context) {
	positionID, ok := pathID(c)
	if !ok {
		return
	}
	var req addLaborRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate, ok := parseDecimal(c, "rate", req.Rate)
	if !ok {
		return
	}
	norma, ok := parseDecimal(c, "norma", req.Norma)
	if !ok {
		return
	}
	laborTypeID, ok := parseOptionalUUID(c, "labor_type_id", req.LaborTypeID)
	if !ok {
		return
	}
	subcontractorID, ok := parseOptionalUUID(c, "subcontractor_id", req.SubcontractorID)
	if !ok {
		return
	}

	component, err := h.estimates.AddLabor(c.Request.Context(), positionID, service.AddLaborInput{
		Description:     req.Description,
		LaborTypeID:     laborTypeID,
		SubcontractorID: subcontractorID,
		Rate:            rate,
		Norma:           norma,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, component)
}

type updateLaborRequest struct {
	Description     *string `json:"description"`
	SubcontractorID *string `json:"subcontractor_id"`
	Rate            *string `json:"rate"`
	Norma           *string `json:"norma"`
}

func (h *Handler) updateLabor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateLaborRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate, ok := parseOptionalDecimal(c, "rate", req.Rate)
	if !ok {
		return
	}
	norma, ok := parseOptionalDecimal(c, "norma", req.Norma)
	if !ok {
		return
	}
	subcontractorID, ok := parseOptionalUUID(c, "subcontractor_id", req.SubcontractorID)
	if !ok {
		return
	}

	component, err := h.estimates.UpdateLabor(c.Request.Context(), id, service.UpdateLaborInput{
		Description:     req.Description,
		SubcontractorID: subcontractorID,
		Rate:            rate,
		Norma:           norma,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, component)
}

func (h *Handler) removeLabor(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.estimates.RemoveLabor(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
