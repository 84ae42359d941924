package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundationpro/inspection-billing/internal/application/service"
)

// CreateTask handles POST /api/projects/:id/tasks
func (h *Handlers) CreateTask(c *gin.Context) {
	projectID, valid := h.pathID(c)
	if !valid {
		return
	}

	var input service.CreateTaskInput
	if !bindJSON(c, &input) {
		return
	}

	task, err := h.services.Tasks.Create(c.Request.Context(), projectID, input)
	if err != nil {
		h.respondError(c, "create task", err)
		return
	}
	ok(c, http.StatusCreated, task)
}

// ListTasks handles GET /api/projects/:id/tasks
func (h *Handlers) ListTasks(c *gin.Context) {
	projectID, valid := h.pathID(c)
	if !valid {
		return
	}

	tasks, err := h.services.Tasks.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.respondError(c, "list tasks", err)
		return
	}
	ok(c, http.StatusOK, tasks)
}

// GetTask handles GET /api/tasks/:id
func (h *Handlers) GetTask(c *gin.Context) {
	id, valid := h.pathID(c)
	if !valid {
		return
	}

	task, err := h.services.Tasks.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "get task", err)
		return
	}
	ok(c, http.StatusOK, task)
}

// CreateDeliverable handles POST /api/projects/:id/deliverables
func (h *Handlers) CreateDeliverable(c *gin.Context) {
	projectID, valid := h.pathID(c)
	if !valid {
		return
	}

	var input service.CreateDeliverableInput
	if !bindJSON(c, &input) {
		return
	}

	deliverable, err := h.services.Deliverables.Create(c.Request.Context(), projectID, input)
	if err != nil {
		h.respondError(c, "create deliverable", err)
		return
	}
	ok(c, http.StatusCreated, deliverable)
}

// ListDeliverables handles GET /api/projects/:id/deliverables
func (h *Handlers) ListDeliverables(c *gin.Context) {
	projectID, valid := h.pathID(c)
	if !valid {
		return
	}

	deliverables, err := h.services.Deliverables.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.respondError(c, "list deliverables", err)
		return
	}
	ok(c, http.StatusOK, deliverables)
}

// GetDeliverable handles GET /api/deliverables/:id
func (h *Handlers) GetDeliverable(c *gin.Context) {
	id, valid := h.pathID(c)
	if !valid {
		return
	}

	deliverable, err := h.services.Deliverables.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "get deliverable", err)
		return
	}
	ok(c, http.StatusOK, deliverable)
}
