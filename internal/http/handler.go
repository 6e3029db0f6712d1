package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PanArtek/plany-app-sub000/internal/model"
	"github.com/PanArtek/plany-app-sub000/internal/service"
)

type Handler struct {
	estimates    *service.EstimateService
	lifecycle    *service.LifecycleService
	generator    *service.GeneratorService
	fulfillment  *service.FulfillmentService
	realizations *service.RealizationService
	catalog      *service.CatalogService
	log          zerolog.Logger
}

func NewHandler(
	estimates *service.EstimateService,
	lifecycle *service.LifecycleService,
	generator *service.GeneratorService,
	fulfillment *service.FulfillmentService,
	realizations *service.RealizationService,
	catalog *service.CatalogService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		estimates:    estimates,
		lifecycle:    lifecycle,
		generator:    generator,
		fulfillment:  fulfillment,
		realizations: realizations,
		catalog:      catalog,
		log:          log,
	}
}

// RegisterReads wires the read-only routes; any authenticated principal
// may call them.
func (h *Handler) RegisterReads(group *gin.RouterGroup) {
	group.GET("/projects", h.listProjects)
	group.GET("/projects/:id", h.getProject)
	group.GET("/projects/:id/revisions", h.listRevisions)
	group.GET("/projects/:id/agreements", h.listAgreements)
	group.GET("/projects/:id/orders", h.listOrders)
	group.GET("/projects/:id/realizations", h.listRealizations)
	group.GET("/revisions/:id/summary", h.revisionSummary)
	group.GET("/positions/:id", h.positionView)
	group.GET("/agreements/:id", h.getAgreement)
	group.GET("/orders/:id", h.getOrder)
	group.GET("/orders/:id/deliveries", h.listDeliveries)
	group.GET("/agreement-lines/:id/executions", h.listExecutions)
	group.GET("/library/positions", h.listLibraryPositions)
	group.GET("/suppliers", h.listSuppliers)
	group.GET("/subcontractors", h.listSubcontractors)
}

// RegisterMutations wires the routes that require the estimator role.
func (h *Handler) RegisterMutations(group *gin.RouterGroup) {
	group.POST("/projects", h.createProject)
	group.POST("/projects/:id/status", h.changeProjectStatus)
	group.POST("/projects/:id/revisions", h.createRevision)
	group.POST("/revisions/:id/lock", h.lockRevision)
	group.POST("/revisions/:id/copy", h.copyRevision)
	group.POST("/revisions/:id/positions", h.addPosition)
	group.PATCH("/positions/:id", h.updatePosition)
	group.DELETE("/positions/:id", h.removePosition)
	group.POST("/positions/:id/reset", h.resetPosition)
	group.POST("/positions/:id/labor-price", h.setLaborPrice)
	group.POST("/positions/:id/materials", h.addMaterial)
	group.POST("/positions/:id/labor", h.addLabor)
	group.PATCH("/materials/:id", h.updateMaterial)
	group.DELETE("/materials/:id", h.removeMaterial)
	group.POST("/materials/:id/reset", h.resetMaterial)
	group.POST("/materials/:id/price", h.setMaterialPrice)
	group.PATCH("/labor/:id", h.updateLabor)
	group.DELETE("/labor/:id", h.removeLabor)
	group.POST("/revisions/:id/generate-agreements", h.generateAgreements)
	group.POST("/revisions/:id/generate-orders", h.generateOrders)
	group.POST("/agreements/:id/status", h.advanceAgreementStatus)
	group.POST("/orders/:id/status", h.advanceOrderStatus)
	group.POST("/orders/:id/deliveries", h.recordDelivery)
	group.POST("/agreement-lines/:id/executions", h.recordExecution)
	group.POST("/realizations", h.addRealization)
	group.POST("/realizations/:id/paid", h.markRealizationPaid)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLocked),
		errors.Is(err, service.ErrNotLocked),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrConstraint):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// --- projects & revisions ---

type createProjectRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := h.lifecycle.CreateProject(c.Request.Context(), req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.lifecycle.ListProjects(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) getProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	project, err := h.lifecycle.GetProject(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type changeStatusRequest struct {
	Status     string  `json:"status" binding:"required"`
	RevisionID *string `json:"revision_id"`
}

func (h *Handler) changeProjectStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, valid := model.ParseProjectStatus(req.Status)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	var revisionID *uuid.UUID
	if req.RevisionID != nil {
		parsed, err := uuid.Parse(*req.RevisionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid revision_id"})
			return
		}
		revisionID = &parsed
	}
	project, err := h.lifecycle.ChangeProjectStatus(c.Request.Context(), id, status, revisionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

type createRevisionRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createRevision(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req createRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	revision, err := h.lifecycle.CreateRevision(c.Request.Context(), id, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, revision)
}

func (h *Handler) listRevisions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	revisions, err := h.lifecycle.ListRevisions(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, revisions)
}

func (h *Handler) lockRevision(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	revision, err := h.lifecycle.LockRevision(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, revision)
}

type copyRevisionRequest struct {
	Name string `json:"name"`
}

func (h *Handler) copyRevision(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req copyRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	revision, err := h.lifecycle.CopyRevision(c.Request.Context(), id, req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, revision)
}

func (h *Handler) revisionSummary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	summary, err := h.estimates.RevisionSummary(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// --- catalog ---

func (h *Handler) listLibraryPositions(c *gin.Context) {
	positions, err := h.catalog.ListLibraryPositions(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, positions)
}

func (h *Handler) listSuppliers(c *gin.Context) {
	suppliers, err := h.catalog.ListSuppliers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *Handler) listSubcontractors(c *gin.Context) {
	subcontractors, err := h.catalog.ListSubcontractors(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, subcontractors)
}
