package signal

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/90s-moya/Moya-Project/internal/app"
	"github.com/90s-moya/Moya-Project/internal/config"
	"github.com/90s-moya/Moya-Project/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrChannelClose = errors.New("channel closed")
)

// SignalWSController terminates WebSocket connections and feeds their frames
// to the router. Identity is never taken from the connection itself: a peer
// stays anonymous until its first join envelope.
type SignalWSController struct {
	Router  *app.Router
	Limiter *MessageRateLimiter

	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewSignalWSController(cfg *config.Config, router *app.Router) *SignalWSController {
	ctl := &SignalWSController{
		Router: router,
		cfg:    cfg,
	}
	if cfg.MsgRateLimit > 0 {
		ctl.Limiter = NewMessageRateLimiter(cfg.MsgRateLimit, cfg.MsgRateInterval)
	}
	ctl.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return cfg.OriginAllowed(r.Header.Get("Origin"))
		},
	}
	return ctl
}

// wsChannel adapts one gorilla connection to core.Channel. Writes go through
// a buffered channel drained by a single write pump, so the router never
// blocks on a slow peer.
type wsChannel struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsChannel) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

func (c *wsChannel) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrChannelClose
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsChannel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and starts the connection's pumps.
// The client token only correlates log lines; it does not authenticate the
// senderId the peer later claims.
func (ctl *SignalWSController) HandleSignal(c *gin.Context) {
	token := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("ct", token).Msg("new WS connection")

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &wsChannel{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}

	go ctl.writePump(conn)
	go ctl.readPump(token, conn)
}
