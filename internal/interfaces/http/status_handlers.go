package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// ChangeStatusRequest is the body of POST /api/{kind}s/:id/status
type ChangeStatusRequest struct {
	Status workflow.Status `json:"status" binding:"required"`
}

// ChangeStatus returns the handler that moves an entity of kind to a new status
func (h *Handlers) ChangeStatus(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := h.pathID(c)
		if !valid {
			return
		}

		actor, found := actorFromRequest(c)
		if !found {
			fail(c, http.StatusUnauthorized, "missing "+userIDHeader+" or "+userRoleHeader+" header")
			return
		}

		var req ChangeStatusRequest
		if !bindJSON(c, &req) {
			return
		}

		change, err := h.services.Status.ChangeStatus(c.Request.Context(), kind, id, req.Status, actor)
		if err != nil {
			h.respondError(c, "change status", err)
			return
		}
		ok(c, http.StatusOK, change)
	}
}

// AvailableTransitions returns the handler listing the statuses the caller
// could move an entity of kind into
func (h *Handlers) AvailableTransitions(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := h.pathID(c)
		if !valid {
			return
		}

		actor, found := actorFromRequest(c)
		if !found {
			fail(c, http.StatusUnauthorized, "missing "+userIDHeader+" or "+userRoleHeader+" header")
			return
		}

		statuses, err := h.services.Status.AvailableTransitions(c.Request.Context(), kind, id, actor)
		if err != nil {
			h.respondError(c, "available transitions", err)
			return
		}
		ok(c, http.StatusOK, statuses)
	}
}

// ListNotifications returns the handler listing notifications for an entity of kind
func (h *Handlers) ListNotifications(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := h.pathID(c)
		if !valid {
			return
		}

		list, err := h.services.Notifications.ListForEntity(c.Request.Context(), kind, id)
		if err != nil {
			h.respondError(c, "list notifications", err)
			return
		}
		ok(c, http.StatusOK, list)
	}
}
