// Package protocol defines the JSON envelope exchanged over the signaling
// transport and the server-originated frames built from it.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/90s-moya/Moya-Project/internal/core"
	"github.com/90s-moya/Moya-Project/internal/domain"
)

const (
	TypeJoin                 = "join"
	TypeLeave                = "leave"
	TypeExistingParticipants = "existingParticipants"
	TypeOffer                = "offer"
	TypeAnswer               = "answer"
	TypeIce                  = "ice"
	TypePing                 = "ping"
	TypePong                 = "pong"

	// SenderServer marks frames originated by the relay itself.
	SenderServer = "server"
)

var (
	ErrMissingType     = errors.New("envelope missing type")
	ErrMissingSenderID = errors.New("envelope missing senderId")
	ErrMissingTargetID = errors.New("envelope missing targetId")
)

// Envelope is the decoded header of one signaling frame. Negotiation frames
// (offer/answer/ice and any type the relay does not interpret) carry extra
// fields the relay never looks at; the original bytes are kept so unicast
// forwarding stays byte-for-byte.
type Envelope struct {
	Type     string `json:"type"`
	SenderID string `json:"senderId"`
	TargetID string `json:"targetId,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	RoomID   string `json:"roomId,omitempty"`

	raw core.Frame
}

// Raw returns the frame exactly as it arrived on the wire.
func (e *Envelope) Raw() core.Frame { return e.raw }

// Relayed reports whether the envelope is a unicast negotiation frame rather
// than one the relay interprets itself.
func (e *Envelope) Relayed() bool {
	switch e.Type {
	case TypeJoin, TypeLeave, TypePing:
		return false
	}
	return true
}

// Parse decodes and validates one inbound frame. Every frame needs a type
// and a senderId; unicast frames additionally need a targetId. A failure
// here is local to the frame: the caller drops it and keeps the connection.
func Parse(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return nil, ErrMissingType
	}
	if env.SenderID == "" {
		return nil, ErrMissingSenderID
	}
	if env.Relayed() && env.TargetID == "" {
		return nil, ErrMissingTargetID
	}
	env.raw = data
	return &env, nil
}

// ParticipantInfo is one roster entry inside an existingParticipants frame.
type ParticipantInfo struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname,omitempty"`
}

type existingParticipantsFrame struct {
	Type         string            `json:"type"`
	SenderID     string            `json:"senderId"`
	Participants []ParticipantInfo `json:"participants"`
	Nickname     string            `json:"nickname,omitempty"`
}

// ExistingParticipants builds the snapshot reply for a joiner: everyone else
// currently registered, with the joiner's own nickname echoed back.
func ExistingParticipants(peers []domain.Participant, nickname string) (core.Frame, error) {
	infos := make([]ParticipantInfo, 0, len(peers))
	for _, p := range peers {
		infos = append(infos, ParticipantInfo{ID: string(p.ID), Nickname: p.Nickname})
	}
	return marshal(existingParticipantsFrame{
		Type:         TypeExistingParticipants,
		SenderID:     SenderServer,
		Participants: infos,
		Nickname:     nickname,
	})
}

type presenceFrame struct {
	Type     string `json:"type"`
	SenderID string `json:"senderId"`
	Nickname string `json:"nickname,omitempty"`
}

// JoinBroadcast announces a new participant to the peers already present.
func JoinBroadcast(senderID, nickname string) (core.Frame, error) {
	return marshal(presenceFrame{Type: TypeJoin, SenderID: senderID, Nickname: nickname})
}

// LeaveBroadcast announces a departure; only type and senderId are carried.
func LeaveBroadcast(senderID string) (core.Frame, error) {
	return marshal(presenceFrame{Type: TypeLeave, SenderID: senderID})
}

// Pong is the reply to an application-level ping.
func Pong() (core.Frame, error) {
	return marshal(struct {
		Type     string `json:"type"`
		SenderID string `json:"senderId"`
	}{Type: TypePong, SenderID: SenderServer})
}

func marshal(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return core.Frame(b), nil
}
