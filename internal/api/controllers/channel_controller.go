package apicontrollers

import (
	"net/http"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ChannelController struct {
	logger         *zap.Logger
	channelService services.ChannelService
}

func NewChannelController(logger *zap.Logger, channelService services.ChannelService) *ChannelController {
	return &ChannelController{
		logger:         logger,
		channelService: channelService,
	}
}

// RegisterRoutes registers all channel-related routes with Echo
func (c *ChannelController) RegisterRoutes(e *echo.Group) {
	e.POST("/channels/", c.CreateChannel)
	e.GET("/channels/", c.ListChannels)
	e.GET("/channels/:id", c.GetChannel)
	e.DELETE("/channels/:id", c.DeleteChannel)
}

type CreateChannelRequest struct {
	Name string `json:"name"`
}

type ChannelListResponse struct {
	Channels []*entities.Channel `json:"channels"`
}

func (c *ChannelController) CreateChannel(ctx echo.Context) error {
	var input CreateChannelRequest
	if err := ctx.Bind(&input); err != nil {
		return handleError(ctx, c.logger, errors.ValidationErrorf("Invalid request body"))
	}

	channel, err := c.channelService.CreateChannel(ctx.Request().Context(), input.Name)
	if err != nil {
		return handleError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusCreated, channel)
}

func (c *ChannelController) ListChannels(ctx echo.Context) error {
	channels, err := c.channelService.ListChannels(ctx.Request().Context())
	if err != nil {
		return handleError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, ChannelListResponse{Channels: channels})
}

func (c *ChannelController) GetChannel(ctx echo.Context) error {
	channel, err := c.channelService.GetChannel(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return handleError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, channel)
}

func (c *ChannelController) DeleteChannel(ctx echo.Context) error {
	if err := c.channelService.DeleteChannel(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return handleError(ctx, c.logger, err)
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"message": "Channel deleted successfully",
	})
}
