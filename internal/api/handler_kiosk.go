package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"resource-booking-backend/internal/kiosk"
)

const kioskWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	// Origins are checked by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// KioskStream handles GET /api/assets/:id/kiosk. It upgrades to a websocket and
// pushes a data frame every refresh period and a clock frame every clock period
// until the client goes away.
func (h *Handler) KioskStream(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetAsset(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("asset_id", id).Msg("kiosk websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client never sends anything; reading only notices when it disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Info().Str("asset_id", id).Msg("kiosk connected")
	opts := kiosk.Options{Refresh: h.cfg.Kiosk.Refresh, Clock: h.cfg.Kiosk.Clock, Now: h.now}
	fetch := func(ctx context.Context, now time.Time) (kiosk.Frame, error) {
		return kiosk.Snapshot(ctx, h.store, id, now.UTC())
	}
	emit := func(f kiosk.Frame) error {
		conn.SetWriteDeadline(time.Now().Add(kioskWriteWait))
		return conn.WriteJSON(f)
	}

	err = kiosk.Run(ctx, opts, fetch, emit)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Debug().Err(err).Str("asset_id", id).Msg("kiosk stream ended")
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(kioskWriteWait))
	log.Info().Str("asset_id", id).Msg("kiosk disconnected")
}
