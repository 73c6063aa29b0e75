package aimodels

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ryos-app/ryos-server/domain/model"
)

type AIModelController interface {
	GetModels(ctx *gin.Context)
	GetModel(ctx *gin.Context)
}

type aiModelController struct{}

func NewAIModelController() AIModelController {
	return &aiModelController{}
}

func (c *aiModelController) GetModels(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"models": model.AIModels})
}

func (c *aiModelController) GetModel(ctx *gin.Context) {
	id := ctx.Param("id")

	m, found := model.LookupAIModel(id)
	if !found {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "unknown model: " + id,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"model": m})
}
