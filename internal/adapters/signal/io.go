package signal

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/90s-moya/Moya-Project/internal/domain"
	"github.com/90s-moya/Moya-Project/internal/protocol"
)

func (ctl *SignalWSController) writePump(c *wsChannel) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				log.Info().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			// Keepalive only. Missing pongs never evict a peer; dead
			// connections are retired when the read side errors out.
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteTimeout)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(token string, c *wsChannel) {
	defer func() {
		log.Info().Str("module", "signal").Str("ct", token).Msg("readPump closing")
		c.Close()
		ctl.Router.HandleDisconnect(c)
	}()

	c.conn.SetReadLimit(ctl.cfg.ReadLimit)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Info().Err(err).Str("module", "signal").Str("ct", token).Msg("readPump read error")
			return
		}
		ctl.handleFrame(c, data)
	}
}

// handleFrame parses and dispatches one inbound frame. A malformed frame is
// dropped and logged; the connection stays open.
func (ctl *SignalWSController) handleFrame(c *wsChannel, data []byte) {
	env, err := protocol.Parse(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("dropped malformed frame")
		return
	}
	if ctl.Limiter != nil && !ctl.Limiter.Allow(domain.ParticipantID(env.SenderID)) {
		log.Warn().Str("module", "signal").Str("id", env.SenderID).Str("type", env.Type).Msg("rate limited, frame dropped")
		return
	}
	ctl.Router.HandleEnvelope(c, env)
}
