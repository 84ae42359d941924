package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// StatusResponse describes one status of a workflow
type StatusResponse struct {
	Status       workflow.Status              `json:"status"`
	Terminal     bool                         `json:"terminal"`
	Next         []workflow.Status            `json:"next"`
	AllowedRoles []workflow.Role              `json:"allowed_roles"`
	Notification *workflow.NotificationConfig `json:"notification,omitempty"`
}

// WorkflowResponse describes a workflow definition
type WorkflowResponse struct {
	Kind          workflow.Kind    `json:"kind"`
	InitialStatus workflow.Status  `json:"initial_status"`
	Statuses      []StatusResponse `json:"statuses"`
}

func toWorkflowResponse(def *workflow.Definition) WorkflowResponse {
	resp := WorkflowResponse{
		Kind:          def.Kind(),
		InitialStatus: def.InitialStatus(),
	}
	for _, st := range def.Statuses() {
		sr := StatusResponse{
			Status:       st,
			Terminal:     def.IsTerminal(st),
			Next:         def.NextStatuses(st),
			AllowedRoles: def.AllowedRoles(st),
		}
		if cfg, ok := def.NotificationConfig(st); ok {
			sr.Notification = &cfg
		}
		resp.Statuses = append(resp.Statuses, sr)
	}
	return resp
}

// ListWorkflows handles GET /api/workflows
func (h *Handlers) ListWorkflows(c *gin.Context) {
	registry := h.services.Registry
	var out []WorkflowResponse
	for _, kind := range registry.Kinds() {
		if def, found := registry.Lookup(kind); found {
			out = append(out, toWorkflowResponse(def))
		}
	}
	ok(c, http.StatusOK, out)
}

// GetWorkflow handles GET /api/workflows/:kind
func (h *Handlers) GetWorkflow(c *gin.Context) {
	kind := workflow.Kind(c.Param("kind"))
	def, found := h.services.Registry.Lookup(kind)
	if !found {
		fail(c, http.StatusNotFound, "unknown workflow: "+string(kind))
		return
	}
	ok(c, http.StatusOK, toWorkflowResponse(def))
}
