package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-auth-service/pkg/metrics"
)

// MetricsModule exposes the Prometheus registry.
type MetricsModule struct{}

func NewMetricsModule() *MetricsModule { return &MetricsModule{} }

func (m *MetricsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/metrics", gin.WrapH(metrics.Handler()))
}
