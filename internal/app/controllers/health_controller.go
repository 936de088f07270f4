package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/techfest/internal/app/models/dto"
	"github.com/yigit/techfest/internal/app/services"
)

// HealthController serves the banner and diagnostics
type HealthController struct {
	healthService *services.HealthService
}

// NewHealthController creates a new HealthController
func NewHealthController(healthService *services.HealthService) *HealthController {
	return &HealthController{
		healthService: healthService,
	}
}

// Banner godoc
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} dto.BannerResponse
// @Router / [get]
func (c *HealthController) Banner(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.BannerResponse{
		Success:     true,
		Running:     true,
		Service:     "Techfest Backend API",
		Timestamp:   time.Now().UTC(),
		Environment: c.healthService.Environment(),
	})
}

// Health godoc
// @Summary Datastore diagnostics
// @Description Always answers 200; failures are reported in the body
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.healthService.Check(ctx.Request.Context()))
}
