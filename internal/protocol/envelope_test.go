package protocol

import (
	"encoding/json"
	"testing"

	"github.com/90s-moya/Moya-Project/internal/domain"
)

func TestParse_Join(t *testing.T) {
	raw := []byte(`{"type":"join","senderId":"abc123","nickname":"Alice"}`)

	env, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env.Type != TypeJoin || env.SenderID != "abc123" || env.Nickname != "Alice" {
		t.Fatalf("unexpected decoded join: %#v", env)
	}
	if env.Relayed() {
		t.Fatalf("join must not be a relayed type")
	}
}

func TestParse_OfferKeepsRawBytes(t *testing.T) {
	raw := []byte(`{"type":"offer","senderId":"abc123","targetId":"def456","sdp":"v=0"}`)

	env, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if env.TargetID != "def456" {
		t.Fatalf("targetId=%q, want def456", env.TargetID)
	}
	if string(env.Raw()) != string(raw) {
		t.Fatalf("raw frame changed: %s", env.Raw())
	}
}

func TestParse_UnknownTypeIsOpaqueUnicast(t *testing.T) {
	raw := []byte(`{"type":"renegotiate","senderId":"a","targetId":"b","token":42}`)

	env, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !env.Relayed() {
		t.Fatalf("unknown type must relay")
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"type":"join"`},
		{"missing type", `{"senderId":"a"}`},
		{"missing senderId", `{"type":"join"}`},
		{"unicast missing targetId", `{"type":"offer","senderId":"a","sdp":"v=0"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.raw)); err == nil {
				t.Fatalf("expected error for %s", tc.raw)
			}
		})
	}
}

func TestExistingParticipants(t *testing.T) {
	peers := []domain.Participant{
		{ID: "def456", Nickname: "Bob"},
	}
	frame, err := ExistingParticipants(peers, "Alice")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var got struct {
		Type         string            `json:"type"`
		SenderID     string            `json:"senderId"`
		Participants []ParticipantInfo `json:"participants"`
		Nickname     string            `json:"nickname"`
	}
	if err := json.Unmarshal(frame, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != TypeExistingParticipants || got.SenderID != SenderServer {
		t.Fatalf("unexpected header: %#v", got)
	}
	if len(got.Participants) != 1 || got.Participants[0].ID != "def456" || got.Participants[0].Nickname != "Bob" {
		t.Fatalf("unexpected participants: %#v", got.Participants)
	}
	if got.Nickname != "Alice" {
		t.Fatalf("nickname=%q, want Alice", got.Nickname)
	}
}

func TestExistingParticipants_EmptyListIsArray(t *testing.T) {
	frame, err := ExistingParticipants(nil, "Alice")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(frame, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(got["participants"]) != "[]" {
		t.Fatalf("participants=%s, want []", got["participants"])
	}
}

func TestLeaveBroadcast_OnlyTypeAndSender(t *testing.T) {
	frame, err := LeaveBroadcast("abc123")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(frame, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got["type"] != TypeLeave || got["senderId"] != "abc123" {
		t.Fatalf("unexpected leave frame: %s", frame)
	}
}
