package aimodels_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ryos-app/ryos-server/domain/model"
	"github.com/ryos-app/ryos-server/presentation/controllers/aimodels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	controller := aimodels.NewAIModelController()

	router := gin.New()
	router.GET("/api/ai-models", controller.GetModels)
	router.GET("/api/ai-models/:id", controller.GetModel)

	return router
}

func TestGetModels(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/ai-models", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Models []model.AIModel `json:"models"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, len(model.AIModels), len(body.Models))

	var defaults int
	for _, m := range body.Models {
		if m.Default {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestGetModel_Known(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/ai-models/gpt-4o", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestGetModel_Unknown(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/ai-models/unknown-model", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
