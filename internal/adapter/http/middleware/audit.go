package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// OperatorAudit logs every successful state-changing operator request as a
// structured audit line.
func OperatorAudit(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		action, resource := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		log.Info().
			Str("audit_action", action).
			Str("resource_type", resource).
			Str("resource_id", resourceID(c)).
			Str("operator", c.GetString(CtxSubject)).
			Str("request_id", c.GetString(CtxRequestID)).
			Str("client_ip", c.ClientIP()).
			Msg("operator action")
	}
}

func mapRouteToAction(route, method string) (string, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/auth/token":
		return "token.issue", "session"
	case "/api/v1/payments/:id/resume":
		return "payment.resume", "payment"
	case "/api/v1/admin/dlq/:id/retry":
		return "dlq.retry", "failed_task"
	case "/api/v1/admin/dlq/:id/resolve":
		return "dlq.resolve", "failed_task"
	case "/api/v1/admin/dlq/:id/archive":
		return "dlq.archive", "failed_task"
	case "/api/v1/admin/rebalance/scan":
		return "rebalance.scan", "pool"
	}
	return "", ""
}

func resourceID(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return strings.TrimSpace(id)
	}
	return ""
}
