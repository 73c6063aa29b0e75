package embed

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ryos-app/ryos-server/application/usecases/embed"
	"github.com/ryos-app/ryos-server/infrastructure/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const verdictsCounter = "embed_proxy_requests_total"

// Headers never forwarded from the upstream response. The proxy exists to
// neutralize these.
var strippedHeaders = []string{
	"X-Frame-Options",
	"Content-Security-Policy",
	"Content-Security-Policy-Report-Only",
}

type EmbedController interface {
	Handle(ctx *gin.Context)
}

type embedController struct {
	usecase embed.EmbedUseCase
	metrics metrics.Manager
}

func NewEmbedController(usecase embed.EmbedUseCase, manager metrics.Manager) EmbedController {
	manager.NewCounter(verdictsCounter, "Embed proxy requests by mode and outcome")

	return &embedController{
		usecase: usecase,
		metrics: manager,
	}
}

func (c *embedController) Handle(ctx *gin.Context) {
	rawURL := ctx.Query("url")
	if rawURL == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  http.StatusBadRequest,
			"type":    "invalid_request",
			"message": "url query parameter is required",
		})
		return
	}

	mode := ctx.DefaultQuery("mode", "proxy")
	switch mode {
	case "check":
		c.check(ctx, rawURL)
	case "proxy":
		c.proxy(ctx, rawURL)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status":  http.StatusBadRequest,
			"type":    "invalid_request",
			"message": "mode must be check or proxy",
		})
	}
}

func (c *embedController) check(ctx *gin.Context, rawURL string) {
	verdict, err := c.usecase.Check(ctx.Request.Context(), rawURL)
	if err != nil {
		c.fail(ctx, "check", err)
		return
	}

	c.count("check", "ok")
	ctx.JSON(http.StatusOK, verdict)
}

func (c *embedController) proxy(ctx *gin.Context, rawURL string) {
	opts := embed.ProxyOptions{
		Year:  ctx.Query("year"),
		Month: ctx.Query("month"),
		Font:  ctx.Query("font"),
	}

	result, err := c.usecase.Proxy(ctx.Request.Context(), rawURL, opts)
	if err != nil {
		c.fail(ctx, "proxy", err)
		return
	}

	for _, header := range strippedHeaders {
		ctx.Header(header, "")
	}
	ctx.Header("Content-Security-Policy", "frame-ancestors *")

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.count("proxy", "ok")
	ctx.Data(result.StatusCode, contentType, result.Body)
}

func (c *embedController) fail(ctx *gin.Context, mode string, err error) {
	var upstreamErr *embed.UpstreamError
	if errors.As(err, &upstreamErr) {
		c.count(mode, upstreamErr.Type)
		ctx.JSON(upstreamErr.StatusCode, upstreamErr)
		return
	}

	c.count(mode, "invalid_request")
	ctx.JSON(http.StatusBadRequest, gin.H{
		"status":  http.StatusBadRequest,
		"type":    "invalid_request",
		"message": err.Error(),
	})
}

func (c *embedController) count(mode string, outcome string) {
	c.metrics.IncCounter(verdictsCounter,
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	)
}
