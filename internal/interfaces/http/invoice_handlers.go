package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateInvoice handles POST /api/projects/:id/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	projectID, valid := h.pathID(c)
	if !valid {
		return
	}

	invoice, err := h.services.Invoices.CreateFromProject(c.Request.Context(), projectID)
	if err != nil {
		h.respondError(c, "create invoice", err)
		return
	}
	ok(c, http.StatusCreated, invoice)
}

// ListInvoices handles GET /api/projects/:id/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	projectID, valid := h.pathID(c)
	if !valid {
		return
	}

	invoices, err := h.services.Invoices.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.respondError(c, "list invoices", err)
		return
	}
	ok(c, http.StatusOK, invoices)
}

// GetInvoice handles GET /api/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	id, valid := h.pathID(c)
	if !valid {
		return
	}

	invoice, err := h.services.Invoices.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "get invoice", err)
		return
	}
	ok(c, http.StatusOK, invoice)
}

// ExportInvoice handles GET /api/invoices/:id/export
func (h *Handlers) ExportInvoice(c *gin.Context) {
	id, valid := h.pathID(c)
	if !valid {
		return
	}

	export, err := h.services.Invoices.Export(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "export invoice", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
