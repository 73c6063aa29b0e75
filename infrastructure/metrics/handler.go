package metrics

import (
	"net/http/pprof"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GetHandler mounts the Prometheus scrape endpoint and the pprof surface on
// the given group. Runtime gauges are refreshed on every scrape.
func GetHandler(router *gin.RouterGroup, m Manager) {
	router.GET("/metrics", runtimeGaugeMiddleware(m), gin.WrapH(promhttp.Handler()))

	pprofGroup := router.Group("/debug/pprof")
	{
		pprofGroup.GET("/", gin.WrapF(pprof.Index))
		pprofGroup.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		pprofGroup.GET("/profile", gin.WrapF(pprof.Profile))
		pprofGroup.GET("/symbol", gin.WrapF(pprof.Symbol))
		pprofGroup.GET("/trace", gin.WrapF(pprof.Trace))

		for _, profile := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
			pprofGroup.GET("/"+profile, gin.WrapH(pprof.Handler(profile)))
		}
	}
}

func runtimeGaugeMiddleware(m Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)

		m.SetGauge("app_go_routines", float64(runtime.NumGoroutine()))
		m.SetGauge("app_sys_memory_alloc", float64(stats.Alloc))
		m.SetGauge("app_sys_total_alloc", float64(stats.TotalAlloc))
		m.SetGauge("app_go_numGC", float64(stats.NumGC))
		m.SetGauge("app_go_sys", float64(stats.Sys))

		ctx.Next()
	}
}
