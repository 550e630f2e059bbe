package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/caretrackhq/assettrack_backend/config"
	"github.com/caretrackhq/assettrack_backend/middlewares"
	"github.com/caretrackhq/assettrack_backend/models"
	"github.com/caretrackhq/assettrack_backend/models/analytics"
	"github.com/caretrackhq/assettrack_backend/models/reports"
	"github.com/caretrackhq/assettrack_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

const defaultDatasetPath = "data/dataset.json"

var tracer = otel.Tracer("assettrack-backend")

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	datasetPath := os.Getenv("DATASET_PATH")
	if datasetPath == "" {
		datasetPath = defaultDatasetPath
	}

	store, err := models.NewEntityStore(datasetPath)
	if err != nil {
		log.Fatalf("failed to load dataset %s: %v", datasetPath, err)
	}
	engine := analytics.NewEngine(store)

	router := newRouter(store, engine)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Redis is optional and must not block startup; connect after the
	// server is listening.
	go config.ConnectRedisWithRetry()

	go func() {
		log.Printf("listening on :%s (dataset=%s trial=%v)", port, datasetPath, config.TrialMode())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}

func newRouter(store *models.EntityStore, engine *analytics.Engine) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Correlation-Id")
	router.Use(cors.New(corsConfig))
	router.Use(middlewares.CorrelationMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "datasetLoadedAt": store.LoadedAt()})
	})

	api := router.Group("/api")
	{
		api.GET("/dashboard/utilization", utilizationDashboardHandler(engine))
		api.GET("/dashboard/protection", protectionDashboardHandler(engine))
		api.GET("/dashboard/compliance", complianceDashboardHandler(engine))

		api.GET("/assets", listAssetsHandler(store))
		api.POST("/assets/:id/status", updateAssetStatusHandler(store, engine))

		exports := api.Group("/reports", middlewares.TrialGateMiddleware())
		{
			exports.GET("/compliance.csv", complianceCSVHandler(engine))
			exports.GET("/compliance.xlsx", complianceExcelHandler(engine))
			exports.GET("/compliance.html", complianceHTMLHandler(engine))
		}

		api.POST("/admin/reload", reloadHandler(store, engine))
	}

	return router
}

func utilizationDashboardHandler(engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "dashboard.utilization")
		defer span.End()

		report, err := engine.UtilizationDashboard(ctx, analytics.NewRequestRand())
		if err != nil {
			abortInternal(c, "utilizationDashboardHandler", err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func protectionDashboardHandler(engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		timeRange, err := models.ParseTimeRange(c.Query("timeRange"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timeRange must be one of 1h, 24h, 7d, 30d"})
			return
		}

		ctx, span := tracer.Start(c.Request.Context(), "dashboard.protection")
		defer span.End()
		ctx = utils.SetTimeRangeInContext(ctx, string(timeRange))

		report, err := engine.ProtectionDashboard(ctx, timeRange, analytics.NewRequestRand())
		if err != nil {
			abortInternal(c, "protectionDashboardHandler", err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func complianceDashboardHandler(engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "dashboard.compliance")
		defer span.End()

		report, err := engine.ComplianceDashboard(ctx, analytics.NewRequestRand())
		if err != nil {
			abortInternal(c, "complianceDashboardHandler", err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func listAssetsHandler(store *models.EntityStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ds, idx, err := store.Snapshot()
		if err != nil {
			abortInternal(c, "listAssetsHandler", err)
			return
		}

		assets := ds.Assets
		if dept := c.Query("departmentId"); dept != "" {
			filtered := make([]models.Asset, 0, len(assets))
			for _, a := range assets {
				if a.DepartmentId == dept {
					filtered = append(filtered, a)
				}
			}
			assets = filtered
		}
		if status := c.Query("status"); status != "" {
			filtered := make([]models.Asset, 0, len(assets))
			for _, a := range assets {
				if string(a.Status) == status {
					filtered = append(filtered, a)
				}
			}
			assets = filtered
		}

		limit := 20
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
				limit = n
			}
		}
		var after *string
		if v := c.Query("after"); v != "" {
			after = &v
		}

		page, pageInfo, err := models.PaginateAssets(assets, after, limit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
			return
		}

		type assetView struct {
			models.Asset
			DepartmentName string `json:"departmentName"`
			ZoneName       string `json:"zoneName"`
			BuildingName   string `json:"buildingName"`
		}
		views := make([]assetView, 0, len(page))
		for i := range page {
			loc := idx.ResolveLocation(&page[i])
			views = append(views, assetView{
				Asset:          page[i],
				DepartmentName: idx.ResolveDepartment(&page[i]).Name,
				ZoneName:       loc.Zone.Name,
				BuildingName:   loc.Building.Name,
			})
		}

		c.JSON(http.StatusOK, gin.H{"assets": views, "pageInfo": pageInfo, "totalCount": len(assets)})
	}
}

func updateAssetStatusHandler(store *models.EntityStore, engine *analytics.Engine) gin.HandlerFunc {
	type statusRequest struct {
		Status models.AssetStatus `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}

		err := store.UpdateAssetStatus(c.Param("id"), req.Status)
		switch {
		case errors.Is(err, utils.ErrorRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		case err != nil:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			engine.InvalidateCache()
			c.JSON(http.StatusOK, gin.H{"status": "updated"})
		}
	}
}

func complianceCSVHandler(engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		export, err := reports.BuildComplianceExport(c.Request.Context(), engine, analytics.NewRequestRand())
		if err != nil {
			abortInternal(c, "complianceCSVHandler", err)
			return
		}
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename="+export.Filename("csv"))
		if err := export.WriteCSV(c.Writer); err != nil {
			abortInternal(c, "complianceCSVHandler", err)
		}
	}
}

func complianceExcelHandler(engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		export, err := reports.BuildComplianceExport(c.Request.Context(), engine, analytics.NewRequestRand())
		if err != nil {
			abortInternal(c, "complianceExcelHandler", err)
			return
		}
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+export.Filename("xlsx"))
		if err := export.WriteExcel(c.Writer); err != nil {
			abortInternal(c, "complianceExcelHandler", err)
		}
	}
}

func complianceHTMLHandler(engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		export, err := reports.BuildComplianceExport(c.Request.Context(), engine, analytics.NewRequestRand())
		if err != nil {
			abortInternal(c, "complianceHTMLHandler", err)
			return
		}
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := export.WriteHTML(c.Writer); err != nil {
			abortInternal(c, "complianceHTMLHandler", err)
		}
	}
}

func reloadHandler(store *models.EntityStore, engine *analytics.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Reload(c.Request.Context()); err != nil {
			abortInternal(c, "reloadHandler", err)
			return
		}
		engine.InvalidateCache()
		c.JSON(http.StatusOK, gin.H{"status": "reloaded", "datasetLoadedAt": store.LoadedAt()})
	}
}

func abortInternal(c *gin.Context, funcName string, err error) {
	cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
	config.LogError(config.GetLogger(), "server.go", funcName, cid, nil, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
