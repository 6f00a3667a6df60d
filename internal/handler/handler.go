package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Rajsingh66/event-scraper/internal/dto"
	"github.com/Rajsingh66/event-scraper/internal/service"
)

const apiVersion = "1.0.0"

// staticDir holds the dashboard frontend; served at / when present.
const staticDir = "static"

type Handler struct {
	eventService service.EventServicer
	router       *gin.Engine
	log          *zap.Logger
}

func NewHandler(eventService service.EventServicer, log *zap.Logger) *Handler {
	h := &Handler{
		eventService: eventService,
		router:       gin.Default(),
		log:          log,
	}

	h.router.Use(cors.Default())
	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	api := h.router.Group("/api")
	api.GET("/health", h.healthCheck)
	api.GET("/events", h.listEvents)
	api.GET("/stats", h.getStats)
	api.GET("/dashboard", h.getDashboard)
	api.GET("/config", h.getConfig)
	api.POST("/scrape/trigger", h.triggerScrape)

	if _, err := os.Stat(staticDir); err == nil {
		h.router.StaticFile("/", staticDir+"/index.html")
		h.router.Static("/static", staticDir)
	}
}

// healthCheck handles GET /api/health
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   apiVersion,
	})
}

// listEvents handles GET /api/events
func (h *Handler) listEvents(c *gin.Context) {
	var req dto.ListEventsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid events request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.eventService.ListEvents(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to list events",
			zap.Error(err),
			zap.String("city", req.City),
			zap.String("platform", req.Platform))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// getStats handles GET /api/stats
func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.eventService.GetStats(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// getDashboard handles GET /api/dashboard
func (h *Handler) getDashboard(c *gin.Context) {
	dashboard, err := h.eventService.GetDashboard(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to build dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// getConfig handles GET /api/config
func (h *Handler) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.eventService.Config())
}

// triggerScrape handles POST /api/scrape/trigger. The run happens in the
// background; the response only acknowledges the start.
func (h *Handler) triggerScrape(c *gin.Context) {
	response := h.eventService.TriggerScrape()

	h.log.Info("Scrape triggered via API",
		zap.Strings("cities", response.Cities))

	c.JSON(http.StatusAccepted, response)
}
