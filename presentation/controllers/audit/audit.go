package audit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	auditUseCase "github.com/ryos-app/ryos-server/application/usecases/audit"
)

const defaultHistoryLimit = 50

// AuditController exposes the room lifecycle audit trail for operators.
type AuditController interface {
	GetRoomHistory(ctx *gin.Context)
}

type auditController struct {
	auditUseCase auditUseCase.AuditUseCase
}

func NewAuditController(uc auditUseCase.AuditUseCase) AuditController {
	return &auditController{auditUseCase: uc}
}

func (c *auditController) GetRoomHistory(ctx *gin.Context) {
	roomID := ctx.Param("roomId")

	limit := defaultHistoryLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	events, err := c.auditUseCase.GetRoomHistory(ctx.Request.Context(), roomID, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"events": events})
}
