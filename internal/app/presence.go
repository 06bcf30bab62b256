package app

import (
	"github.com/90s-moya/Moya-Project/internal/core"
	"github.com/90s-moya/Moya-Project/internal/domain"
	"github.com/90s-moya/Moya-Project/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Router interprets inbound envelopes and decides fan-out: presence events go
// to everyone else in the namespace, negotiation frames go verbatim to one
// target. Nothing here returns an error to the transport; every fault is
// absorbed and logged where it is detected, and a lost message is for the
// WebRTC layer above to recover from.
type Router struct {
	Registry *Registry

	// scoped confines presence and relay traffic to entries sharing the
	// join's roomId. When false the whole process is one flat namespace,
	// which is the historical behavior of this relay.
	scoped bool
}

func NewRouter(reg *Registry, scoped bool) *Router {
	return &Router{Registry: reg, scoped: scoped}
}

// HandleEnvelope dispatches one parsed inbound frame from ch.
func (rt *Router) HandleEnvelope(ch core.Channel, env *protocol.Envelope) {
	switch env.Type {
	case protocol.TypeJoin:
		rt.handleJoin(ch, env)
	case protocol.TypeLeave:
		rt.handleLeave(env.SenderID)
	case protocol.TypePing:
		rt.handlePing(ch)
	default:
		rt.relay(env)
	}
}

// HandleDisconnect retires whatever binding ch still holds. Safe to invoke
// for a channel already gone; the second call finds nothing and does nothing.
func (rt *Router) HandleDisconnect(ch core.Channel) {
	p, ok := rt.Registry.RemoveByChannel(ch)
	if !ok {
		return
	}
	log.Info().Str("module", "app.presence").Str("id", string(p.ID)).Msg("disconnect cleanup")
	rt.broadcastLeave(p)
}

func (rt *Router) handleJoin(ch core.Channel, env *protocol.Envelope) {
	room := ""
	if rt.scoped {
		room = env.RoomID
	}
	p, err := domain.NewParticipant(env.SenderID, env.Nickname, room)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.presence").Str("id", env.SenderID).Msg("rejected join")
		return
	}

	rt.Registry.Put(p, ch)
	log.Info().Str("module", "app.presence").Str("id", string(p.ID)).Str("nickname", p.Nickname).Str("room", string(p.Room)).Msg("join")

	peers := rt.Registry.SnapshotExcept(p.ID, p.Room)

	others := make([]domain.Participant, 0, len(peers))
	for _, snap := range peers {
		others = append(others, snap.Participant)
	}
	rt.send(ch, func() (core.Frame, error) {
		return protocol.ExistingParticipants(others, p.Nickname)
	})

	for _, snap := range peers {
		rt.send(snap.Channel, func() (core.Frame, error) {
			return protocol.JoinBroadcast(string(p.ID), p.Nickname)
		})
	}
}

func (rt *Router) handleLeave(senderID string) {
	id := domain.ParticipantID(senderID)
	snap, ok := rt.Registry.Lookup(id)
	if !ok {
		log.Warn().Str("module", "app.presence").Str("id", senderID).Msg("leave from unregistered sender")
		return
	}
	rt.Registry.Remove(id)
	log.Info().Str("module", "app.presence").Str("id", senderID).Msg("leave")
	rt.broadcastLeave(snap.Participant)
}

func (rt *Router) handlePing(ch core.Channel) {
	rt.send(ch, protocol.Pong)
}

// relay forwards a negotiation envelope byte-for-byte to its target. Unknown
// or closed targets, and cross-room targets in scoped mode, drop silently:
// the sender gets no feedback, matching the protocol's best-effort contract.
func (rt *Router) relay(env *protocol.Envelope) {
	target, ok := rt.Registry.Lookup(domain.ParticipantID(env.TargetID))
	if !ok {
		log.Debug().Str("module", "app.presence").Str("type", env.Type).Str("target", env.TargetID).Msg("relay target unknown")
		return
	}
	if rt.scoped {
		sender, ok := rt.Registry.Lookup(domain.ParticipantID(env.SenderID))
		if !ok || sender.Participant.Room != target.Participant.Room {
			log.Debug().Str("module", "app.presence").Str("type", env.Type).Str("target", env.TargetID).Msg("relay across rooms dropped")
			return
		}
	}
	if !target.Channel.IsOpen() {
		log.Debug().Str("module", "app.presence").Str("type", env.Type).Str("target", env.TargetID).Msg("relay target closed")
		return
	}
	if err := target.Channel.TrySend(env.Raw()); err != nil {
		log.Warn().Err(err).Str("module", "app.presence").Str("type", env.Type).Str("target", env.TargetID).Msg("relay send failed")
	}
}

func (rt *Router) broadcastLeave(p domain.Participant) {
	for _, snap := range rt.Registry.SnapshotExcept(p.ID, p.Room) {
		rt.send(snap.Channel, func() (core.Frame, error) {
			return protocol.LeaveBroadcast(string(p.ID))
		})
	}
}

func (rt *Router) send(ch core.Channel, build func() (core.Frame, error)) {
	frame, err := build()
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("build frame")
		return
	}
	if err := ch.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.presence").Msg("send failed")
	}
}
