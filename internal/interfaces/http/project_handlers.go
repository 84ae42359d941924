package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundationpro/inspection-billing/internal/application/service"
)

// ListProjectsRequest represents query parameters for listing projects
type ListProjectsRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// SetProductsRequest is the body of PUT /api/projects/:id/products
type SetProductsRequest struct {
	ProductIDs     []string `json:"product_ids"`
	ProductionDays int      `json:"production_days"`
}

// CreateProject handles POST /api/projects
func (h *Handlers) CreateProject(c *gin.Context) {
	var input service.CreateProjectInput
	if !bindJSON(c, &input) {
		return
	}

	project, err := h.services.Projects.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, "create project", err)
		return
	}
	ok(c, http.StatusCreated, project)
}

// ListProjects handles GET /api/projects
func (h *Handlers) ListProjects(c *gin.Context) {
	var req ListProjectsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	projects, err := h.services.Projects.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.respondError(c, "list projects", err)
		return
	}
	ok(c, http.StatusOK, projects)
}

// GetProject handles GET /api/projects/:id
func (h *Handlers) GetProject(c *gin.Context) {
	id, valid := h.pathID(c)
	if !valid {
		return
	}

	project, err := h.services.Projects.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "get project", err)
		return
	}
	ok(c, http.StatusOK, project)
}

// SetProjectProducts handles PUT /api/projects/:id/products
func (h *Handlers) SetProjectProducts(c *gin.Context) {
	id, valid := h.pathID(c)
	if !valid {
		return
	}

	var req SetProductsRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.services.Projects.SetProducts(c.Request.Context(), id, req.ProductIDs, req.ProductionDays)
	if err != nil {
		h.respondError(c, "set project products", err)
		return
	}
	ok(c, http.StatusOK, project)
}

// UploadProjectDocument handles POST /api/projects/:id/documents. The
// multipart field "file" holds a PDF, image or text document whose
// products are merged into the project.
func (h *Handlers) UploadProjectDocument(c *gin.Context) {
	id, valid := h.pathID(c)
	if !valid {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "document too large")
			return
		}
		fail(c, http.StatusBadRequest, "missing file field")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.respondError(c, "open upload", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(c, "read upload", err)
		return
	}

	result, err := h.services.Projects.DetectProducts(c.Request.Context(), id, header.Filename, data)
	if err != nil {
		h.respondError(c, "detect products", err)
		return
	}
	ok(c, http.StatusOK, result)
}

// GetProjectServices handles GET /api/projects/:id/services
func (h *Handlers) GetProjectServices(c *gin.Context) {
	id, valid := h.pathID(c)
	if !valid {
		return
	}

	quote, err := h.services.Projects.CalculateServices(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "calculate services", err)
		return
	}
	ok(c, http.StatusOK, quote)
}
