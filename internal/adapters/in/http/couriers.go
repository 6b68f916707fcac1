package http

import (
	"context"
	"net/http"
	"time"

	"marketplace/internal/adapters/out/realtime"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// maxInboundMessageSize caps frames read from couriers. Inbound frames carry nothing
// the service acts on.
const maxInboundMessageSize = 512

// GetLiveCouriers handles GET /api/v1/couriers/live - lists couriers with an open socket.
func (s *Server) GetLiveCouriers(ctx echo.Context) error {
	ids := s.registry.LiveCourierIDs()
	if ids == nil {
		ids = []kernel.UUID{}
	}
	return ctx.JSON(http.StatusOK, LiveCouriers{CourierIDs: ids})
}

// ConnectCourier handles GET /ws/couriers/:courierId - upgrades to a websocket and keeps
// the courier live in the registry until the connection ends.
func (s *Server) ConnectCourier(ctx echo.Context) error {
	courierID, err := kernel.UUIDFromString(ctx.Param("courierId"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid courier id: "+err.Error())
	}

	conn, err := s.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// the upgrader has already replied to the client
		s.logger.WarnContext(ctx.Request().Context(), "Websocket upgrade failed",
			"courier_id", courierID.String(), "error", err)
		return nil
	}

	ch := realtime.NewSocketChannel(conn, s.socketConfig.WriteTimeout)
	s.registry.Register(courierID, ch)

	s.serveSocket(conn, ch)

	s.registry.Release(courierID, ch)
	_ = ch.Close()
	return nil
}

// serveSocket reads until the peer goes away or stops answering pings.
func (s *Server) serveSocket(conn *websocket.Conn, ch *realtime.SocketChannel) {
	done := make(chan struct{})
	defer close(done)

	conn.SetReadLimit(maxInboundMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.socketConfig.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.socketConfig.PongWait))
	})

	go func() {
		ticker := time.NewTicker(s.socketConfig.PingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := ch.Ping(context.Background()); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.socketConfig.PongWait))
	}
}
