// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const (
	MaxParticipantIDLen = 64
	MaxNicknameLen      = 36
	MaxRoomIDLen        = 64
)

var (
	ErrParticipantIDEmpty   = errors.New("participant id empty")
	ErrParticipantIDTooLong = errors.New("participant id too long")
	ErrNicknameTooLong      = errors.New("nickname too long")
	ErrRoomIDTooLong        = errors.New("room id too long")
)

type (
	ParticipantID string
	RoomID        string
)

// Participant is the ephemeral identity of one signaling peer. The id is
// chosen by the client and lives only as long as its connection; it does
// not reference any persisted account.
type Participant struct {
	ID       ParticipantID `json:"id"`
	Nickname string        `json:"nickname,omitempty"`
	Room     RoomID        `json:"roomId,omitempty"`
}

// NewParticipant avoids raw literals in adapters and keeps validation in one place.
func NewParticipant(id string, nickname string, room string) (*Participant, error) {
	if len(id) == 0 {
		return nil, ErrParticipantIDEmpty
	}
	if len(id) > MaxParticipantIDLen {
		return nil, ErrParticipantIDTooLong
	}
	if len(nickname) > MaxNicknameLen {
		return nil, ErrNicknameTooLong
	}
	if len(room) > MaxRoomIDLen {
		return nil, ErrRoomIDTooLong
	}
	return &Participant{ID: ParticipantID(id), Nickname: nickname, Room: RoomID(room)}, nil
}
