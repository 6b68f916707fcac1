package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"marketplace/internal/adapters/out/realtime"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/pkg/errs"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CreateOrderHandler creates Idle orders.
type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
}

// ChangeOrderStatusHandler advances or cancels orders.
type ChangeOrderStatusHandler interface {
	Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) error
}

// GetActiveOrdersHandler lists open orders.
type GetActiveOrdersHandler interface {
	Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
}

// SocketConfig controls the courier websocket connections.
type SocketConfig struct {
	// WriteTimeout bounds a single message write.
	WriteTimeout time.Duration

	// PongWait is how long the server waits for any frame, pongs included, before
	// it considers the courier gone.
	PongWait time.Duration

	// PingPeriod is the interval of server pings. Must be shorter than PongWait.
	PingPeriod time.Duration
}

// DefaultSocketConfig returns the socket settings used in production.
func DefaultSocketConfig() SocketConfig {
	return SocketConfig{
		WriteTimeout: realtime.DefaultWriteTimeout,
		PongWait:     60 * time.Second,
		PingPeriod:   54 * time.Second,
	}
}

// WithDefaults fills zero or negative fields from DefaultSocketConfig and keeps
// PingPeriod below PongWait.
func (c SocketConfig) WithDefaults() SocketConfig {
	defaults := DefaultSocketConfig()
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.PongWait <= 0 {
		c.PongWait = defaults.PongWait
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = c.PongWait * 9 / 10
	}
	return c
}

// Server exposes the order routes, the courier socket and the operational endpoints.
type Server struct {
	// Command handlers
	createOrderHandler       CreateOrderHandler
	changeOrderStatusHandler ChangeOrderStatusHandler

	// Query handlers
	getActiveOrdersHandler GetActiveOrdersHandler

	registry     *realtime.Registry
	gatherer     prometheus.Gatherer
	upgrader     websocket.Upgrader
	socketConfig SocketConfig
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
// Unset socket settings fall back to DefaultSocketConfig.
func NewServer(
	createOrderHandler CreateOrderHandler,
	changeOrderStatusHandler ChangeOrderStatusHandler,
	getActiveOrdersHandler GetActiveOrdersHandler,
	registry *realtime.Registry,
	gatherer prometheus.Gatherer,
	socketConfig SocketConfig,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		changeOrderStatusHandler: changeOrderStatusHandler,
		getActiveOrdersHandler:   getActiveOrdersHandler,
		registry:                 registry,
		gatherer:                 gatherer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		socketConfig: socketConfig.WithDefaults(),
		logger:       logger.With("component", "http_server"),
	}
}

// RegisterHandlers mounts every route of the server on e.
func RegisterHandlers(e *echo.Echo, s *Server) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	e.GET("/ws/couriers/:courierId", s.ConnectCourier)

	api := e.Group("/api/v1")
	api.GET("/couriers/live", s.GetLiveCouriers)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetOrders)
	api.POST("/orders/:orderId/status", s.ChangeOrderStatus)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

func errorResponse(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{
		Code:    code,
		Message: message,
	})
}

// handlerError maps a use case error to a response. Validation failures reported by the
// domain at this stage conflict with the current order state.
func (s *Server) handlerError(ctx echo.Context, err error, message string) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorResponse(ctx, http.StatusNotFound, message+": "+err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return errorResponse(ctx, http.StatusConflict, message+": "+err.Error())
	default:
		s.logger.ErrorContext(ctx.Request().Context(), message, "error", err)
		return errorResponse(ctx, http.StatusInternalServerError, message)
	}
}
