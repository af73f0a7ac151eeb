package routes

import (
	"vendas-report/config"
	"vendas-report/store"

	"github.com/gin-gonic/gin"
)

var (
	reports *store.ReportStore
	cfg     *config.Config
)

func RegisterRoutes(server *gin.Engine, reportStore *store.ReportStore, conf *config.Config) {
	reports = reportStore
	cfg = conf

	v1 := server.Group("/api/v1")
	{
		reportsV1 := v1.Group("/reports")
		{
			reportsV1.POST("/", handleCreateReport)
			reportsV1.GET("/:id", handleGetReport)
			reportsV1.GET("/:id/export", handleExportReport)
		}
	}
}
