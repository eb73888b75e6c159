package api

import (
	"net/http"
	"time"

	apicontrollers "github.com/drujensen/wearables/internal/api/controllers"
	"github.com/drujensen/wearables/internal/api/websocket"
	"github.com/drujensen/wearables/internal/domain/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Services struct {
	Chat     services.ChatService
	Channels services.ChannelService
	Graph    services.GraphService
	// Hub is optional; without it the websocket route is not mounted.
	Hub *websocket.ChannelHub
}

type RouterOptions struct {
	CORSOrigins          []string
	CORSAllowCredentials bool
}

// NewRouter builds the echo instance serving the HTTP API.
func NewRouter(svc Services, opts RouterOptions, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     opts.CORSOrigins,
		AllowCredentials: opts.CORSAllowCredentials,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	api := e.Group(apicontrollers.APIPrefix)
	apicontrollers.NewChatController(logger, svc.Chat).RegisterRoutes(api)
	apicontrollers.NewChannelController(logger, svc.Channels).RegisterRoutes(api)
	apicontrollers.NewGraphController(logger, svc.Graph).RegisterRoutes(api)
	apicontrollers.NewSystemController(logger, svc.Chat).RegisterRoutes(e, api)
	if svc.Hub != nil {
		svc.Hub.RegisterRoutes(api)
	}

	return e
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Error("Request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("Request", fields...)
			return nil
		},
	})
}
