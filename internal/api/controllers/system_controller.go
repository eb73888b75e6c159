package apicontrollers

import (
	"net/http"
	"sort"
	"time"

	"github.com/drujensen/wearables/internal/domain/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	APIPrefix = "/api/v1"
	Version   = "1.0.0"
)

type SystemController struct {
	logger      *zap.Logger
	chatService services.ChatService
	now         func() time.Time
}

func NewSystemController(logger *zap.Logger, chatService services.ChatService) *SystemController {
	return &SystemController{
		logger:      logger,
		chatService: chatService,
		now:         time.Now,
	}
}

// RegisterRoutes mounts the root endpoint on e and the rest under g.
func (c *SystemController) RegisterRoutes(e *echo.Echo, g *echo.Group) {
	e.GET("/", c.Root)
	g.GET("/health", c.Health)
	g.GET("/docs", func(ctx echo.Context) error {
		return c.Docs(ctx, e.Routes())
	})
}

type HealthResponse struct {
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	AgentInitialized bool      `json:"agent_initialized"`
}

type RouteInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func (c *SystemController) Root(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]any{
		"message": "Wearables Assistant API",
		"version": Version,
		"docs":    APIPrefix + "/docs",
	})
}

func (c *SystemController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, HealthResponse{
		Status:           "healthy",
		Timestamp:        c.now(),
		AgentInitialized: c.chatService.IsInitialized(),
	})
}

// Docs lists the registered routes, sorted by path then method.
func (c *SystemController) Docs(ctx echo.Context, routes []*echo.Route) error {
	out := make([]RouteInfo, 0, len(routes))
	for _, r := range routes {
		if r.Method == echo.RouteNotFound {
			continue
		}
		out = append(out, RouteInfo{Method: r.Method, Path: r.Path})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return ctx.JSON(http.StatusOK, map[string]any{
		"version": Version,
		"routes":  out,
	})
}
