package handler

import (
	"context"
	"strconv"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"
	"payflow/pkg/apperror"
	"payflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultDLQLimit = 50
	maxDLQLimit     = 500
)

// AdminHandler handles operator endpoints: DLQ, pools and breakers.
type AdminHandler struct {
	adminSvc ports.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminSvc ports.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// ListDLQ handles GET /api/v1/admin/dlq?limit=.
func (h *AdminHandler) ListDLQ(c *gin.Context) {
	limit := defaultDLQLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.Error(c, apperror.ErrValidation("limit must be a positive integer"))
			return
		}
		limit = min(n, maxDLQLimit)
	}

	tasks, err := h.adminSvc.ListDLQ(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if tasks == nil {
		tasks = []*domain.FailedTask{}
	}
	response.OK(c, gin.H{"items": tasks, "count": len(tasks)})
}

// RetryDLQ handles POST /api/v1/admin/dlq/:id/retry.
func (h *AdminHandler) RetryDLQ(c *gin.Context) {
	h.taskAction(c, h.adminSvc.RetryDLQ)
}

// ResolveDLQ handles POST /api/v1/admin/dlq/:id/resolve.
func (h *AdminHandler) ResolveDLQ(c *gin.Context) {
	h.taskAction(c, h.adminSvc.ResolveDLQ)
}

// ArchiveDLQ handles POST /api/v1/admin/dlq/:id/archive.
func (h *AdminHandler) ArchiveDLQ(c *gin.Context) {
	h.taskAction(c, h.adminSvc.ArchiveDLQ)
}

func (h *AdminHandler) taskAction(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*domain.FailedTask, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("invalid task id"))
		return
	}
	task, err := fn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, task)
}

// PoolStatus handles GET /api/v1/admin/pools/:id.
func (h *AdminHandler) PoolStatus(c *gin.Context) {
	report, err := h.adminSvc.GetPoolStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// RebalanceScan handles POST /api/v1/admin/rebalance/scan.
func (h *AdminHandler) RebalanceScan(c *gin.Context) {
	reports, err := h.adminSvc.TriggerRebalanceScan(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"reports": reports})
}

// Breakers handles GET /api/v1/admin/breakers.
func (h *AdminHandler) Breakers(c *gin.Context) {
	response.OK(c, gin.H{"breakers": h.adminSvc.Breakers()})
}
