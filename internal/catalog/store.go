// Package catalog holds the session's entity collections and resolves the
// relationships between them.
//
// Every mutation computes a new collection and replaces the old one
// wholesale, so snapshots returned to callers never change underneath them.
package catalog

import (
	"slices"
	"sync"

	"github.com/book-expert/voice-studio/internal/voice"
	"github.com/google/uuid"
)

// Store holds voices, speakers, speaker groups, creators and teams.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	voices   []voice.Voice
	speakers []voice.Speaker
	groups   []voice.SpeakerGroup
	creators []voice.Creator
	teams    []voice.Team
	newID    func() string
}

// NewStore creates an empty store whose only creator is current, registered
// under the reserved id and admin role.
func NewStore(current voice.Creator) *Store {
	current.ID = voice.CurrentCreatorID
	current.Role = voice.RoleAdmin

	return &Store{
		voices:   []voice.Voice{},
		speakers: []voice.Speaker{},
		groups:   []voice.SpeakerGroup{},
		creators: []voice.Creator{current},
		teams:    []voice.Team{},
		newID:    uuid.NewString,
	}
}

// Voices returns a snapshot of the voice collection.
func (s *Store) Voices() []voice.Voice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.voices)
}

// SetVoices replaces the voice collection.
func (s *Store) SetVoices(voices []voice.Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.voices = slices.Clone(voices)
}

// Speakers returns a snapshot of the speaker collection.
func (s *Store) Speakers() []voice.Speaker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.speakers)
}

// SetSpeakers replaces the speaker collection.
func (s *Store) SetSpeakers(speakers []voice.Speaker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.speakers = slices.Clone(speakers)
}

// SpeakerGroups returns a snapshot of the speaker group collection.
func (s *Store) SpeakerGroups() []voice.SpeakerGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.groups)
}

// SetSpeakerGroups replaces the speaker group collection.
func (s *Store) SetSpeakerGroups(groups []voice.SpeakerGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups = slices.Clone(groups)
}

// Creators returns a snapshot of the creator collection.
func (s *Store) Creators() []voice.Creator {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.creators)
}

// SetCreators replaces the creator collection.
func (s *Store) SetCreators(creators []voice.Creator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creators = slices.Clone(creators)
}

// Teams returns a snapshot of the team collection.
func (s *Store) Teams() []voice.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.teams)
}

// SetTeams replaces the team collection.
func (s *Store) SetTeams(teams []voice.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams = slices.Clone(teams)
}

// AddVoice commits candidate through voice.AddVoiceToList and reports
// whether it was new.
func (s *Store) AddVoice(candidate voice.Voice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.voices)
	s.voices = voice.AddVoiceToList(s.voices, candidate)

	return len(s.voices) != before
}

// MergeVoices adds every candidate whose id is not yet present and returns
// how many were added.
func (s *Store) MergeVoices(candidates []voice.Voice) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.voices)
	merged := s.voices

	for _, candidate := range candidates {
		merged = voice.AddVoiceToList(merged, candidate)
	}

	s.voices = merged

	return len(merged) - before
}

// UpdateVoice replaces the first voice identified by id with the result of
// update. It returns the updated voice and false when no voice matches.
func (s *Store) UpdateVoice(id string, update func(voice.Voice) voice.Voice) (voice.Voice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.voices, func(v voice.Voice) bool { return v.ID == id })
	if index < 0 {
		index = slices.IndexFunc(s.voices, func(v voice.Voice) bool { return v.Identifies(id) })
	}

	if index < 0 {
		return voice.Voice{}, false
	}

	updated := slices.Clone(s.voices)
	updated[index] = update(updated[index])
	s.voices = updated

	return updated[index], true
}

// VoiceByID returns the voice identified by id, preferring an exact id
// match over an audio or speaker id match.
func (s *Store) VoiceByID(id string) (voice.Voice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.voices {
		if v.ID == id {
			return v, true
		}
	}

	for _, v := range s.voices {
		if v.Identifies(id) {
			return v, true
		}
	}

	return voice.Voice{}, false
}

// AddSpeaker appends speaker unless one with the same id is present and
// reports whether it was new.
func (s *Store) AddSpeaker(speaker voice.Speaker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.speakers, func(existing voice.Speaker) bool { return existing.ID == speaker.ID }) {
		return false
	}

	updated := make([]voice.Speaker, len(s.speakers), len(s.speakers)+1)
	copy(updated, s.speakers)
	s.speakers = append(updated, speaker)

	return true
}
