package apicontrollers

import (
	"net/http"

	"github.com/drujensen/wearables/internal/domain/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type GraphController struct {
	logger       *zap.Logger
	graphService services.GraphService
}

func NewGraphController(logger *zap.Logger, graphService services.GraphService) *GraphController {
	return &GraphController{
		logger:       logger,
		graphService: graphService,
	}
}

func (c *GraphController) RegisterRoutes(e *echo.Group) {
	e.GET("/graph/", c.GetGraph)
}

// GetGraph never fails; without an orchestrator it serves a placeholder.
func (c *GraphController) GetGraph(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.graphService.GetGraph(ctx.Request().Context()))
}
