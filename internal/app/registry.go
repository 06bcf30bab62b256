package app

import (
	"sync"

	"github.com/90s-moya/Moya-Project/internal/core"
	"github.com/90s-moya/Moya-Project/internal/domain"
	"github.com/rs/zerolog/log"
)

type registryEntry struct {
	Participant *domain.Participant
	Channel     core.Channel
}

// Snapshot is a read-only view of one registered participant.
type Snapshot struct {
	Participant domain.Participant
	Channel     core.Channel
}

// Registry is the authoritative id -> channel binding. At most one live
// channel per id at any instant; all mutation goes through these methods.
// Cardinality is small, so a coarse lock over a plain map is enough.
type Registry struct {
	mu      sync.RWMutex
	entries map[domain.ParticipantID]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[domain.ParticipantID]*registryEntry)}
}

// Put installs or replaces the binding for p.ID. A superseded channel that is
// still open is closed, so a client reconnecting with the same id without a
// clean leave never leaves a stale relay target behind. The close happens
// outside the lock; a synchronous disconnect callback may re-enter here.
func (r *Registry) Put(p *domain.Participant, ch core.Channel) {
	var stale core.Channel

	r.mu.Lock()
	if old, ok := r.entries[p.ID]; ok && old.Channel != ch && old.Channel.IsOpen() {
		stale = old.Channel
	}
	r.entries[p.ID] = &registryEntry{Participant: p, Channel: ch}
	r.mu.Unlock()

	if stale != nil {
		log.Warn().Str("module", "app.registry").Str("id", string(p.ID)).Msg("evicting stale channel for rebound id")
		stale.Close()
	}
	log.Info().Str("module", "app.registry").Str("id", string(p.ID)).Str("room", string(p.Room)).Msg("bound channel")
}

// Get returns the currently bound channel for id.
func (r *Registry) Get(id domain.ParticipantID) (core.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok {
		return e.Channel, true
	}
	return nil, false
}

// Lookup returns the full snapshot for id.
func (r *Registry) Lookup(id domain.ParticipantID) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok {
		return Snapshot{Participant: *e.Participant, Channel: e.Channel}, true
	}
	return Snapshot{}, false
}

// Remove deletes the binding for id. Idempotent on unknown ids.
func (r *Registry) Remove(id domain.ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	log.Info().Str("module", "app.registry").Str("id", string(id)).Msg("unbound channel")
}

// RemoveByChannel deletes any entry bound to ch and returns its participant.
// This is the disconnect safety net: a client that vanishes without a leave,
// or before ever joining, is cleaned up by channel identity alone.
func (r *Registry) RemoveByChannel(ch core.Channel) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.entries {
		if e.Channel == ch {
			p := *e.Participant
			delete(r.entries, id)
			log.Info().Str("module", "app.registry").Str("id", string(id)).Msg("removed by channel")
			return p, true
		}
	}
	return domain.Participant{}, false
}

// SnapshotExcept returns every registered participant in room other than id.
// The zero room key is the shared global namespace.
func (r *Registry) SnapshotExcept(id domain.ParticipantID, room domain.RoomID) []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Snapshot, 0, len(r.entries))
	for pid, e := range r.entries {
		if pid == id || e.Participant.Room != room {
			continue
		}
		out = append(out, Snapshot{Participant: *e.Participant, Channel: e.Channel})
	}
	return out
}

// All returns every registered participant, for the roster endpoint.
func (r *Registry) All() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Participant, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e.Participant)
	}
	return out
}
