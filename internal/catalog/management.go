package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/book-expert/voice-studio/internal/voice"
)

// Id prefixes of client-generated entities.
const (
	groupIDPrefix   = "group-"
	teamIDPrefix    = "team-"
	creatorIDPrefix = "creator-"
)

var (
	// ErrGroupNameRequired indicates a speaker group without a name.
	ErrGroupNameRequired = errors.New("speaker group name is required")
	// ErrNoSpeakersSelected indicates a speaker group without speakers.
	ErrNoSpeakersSelected = errors.New("at least one speaker must be selected")
	// ErrCreatorFieldsRequired indicates a creator without name or email.
	ErrCreatorFieldsRequired = errors.New("creator name and email are required")
	// ErrTeamNameRequired indicates a team without a name.
	ErrTeamNameRequired = errors.New("team name is required")
	// ErrNoTeamMembers indicates a team without members.
	ErrNoTeamMembers = errors.New("at least one team member must be selected")
	// ErrCreatorNotFound indicates an unknown creator id.
	ErrCreatorNotFound = errors.New("creator not found")
	// ErrVoiceNotFound indicates an unknown voice id.
	ErrVoiceNotFound = errors.New("voice not found")
)

// CreateSpeakerGroup appends a new group referencing speakerIDs. Duplicate
// ids are dropped, keeping first occurrences.
func (s *Store) CreateSpeakerGroup(name string, speakerIDs []string) (voice.SpeakerGroup, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return voice.SpeakerGroup{}, ErrGroupNameRequired
	}

	unique := dedupe(speakerIDs)
	if len(unique) == 0 {
		return voice.SpeakerGroup{}, ErrNoSpeakersSelected
	}

	group := voice.SpeakerGroup{
		ID:         groupIDPrefix + s.newID(),
		Name:       trimmed,
		SpeakerIDs: unique,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups = append(slices.Clone(s.groups), group)

	return group, nil
}

// AddCreator registers a creator with the creator role.
func (s *Store) AddCreator(name, email string) (voice.Creator, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" {
		return voice.Creator{}, ErrCreatorFieldsRequired
	}

	creator := voice.Creator{
		ID:        creatorIDPrefix + s.newID(),
		Name:      name,
		Email:     email,
		Role:      voice.RoleCreator,
		AvatarURL: "",
		Teams:     nil,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.creators = append(slices.Clone(s.creators), creator)

	return creator, nil
}

// CreateTeam registers a team owned by the current operator.
func (s *Store) CreateTeam(name, description string, members []string) (voice.Team, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return voice.Team{}, ErrTeamNameRequired
	}

	unique := dedupe(members)
	if len(unique) == 0 {
		return voice.Team{}, ErrNoTeamMembers
	}

	team := voice.Team{
		ID:          teamIDPrefix + s.newID(),
		Name:        trimmed,
		Description: strings.TrimSpace(description),
		OwnerID:     voice.CurrentCreatorID,
		Members:     unique,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams = append(slices.Clone(s.teams), team)

	return team, nil
}

// AssignVoiceToCreator attributes the voice to the creator, rewriting its
// creator id and name.
func (s *Store) AssignVoiceToCreator(voiceID, creatorID string) (voice.Voice, error) {
	creator, ok := s.CreatorByID(creatorID)
	if !ok {
		return voice.Voice{}, fmt.Errorf("%w: %s", ErrCreatorNotFound, creatorID)
	}

	updated, ok := s.UpdateVoice(voiceID, func(v voice.Voice) voice.Voice {
		v.CreatorID = creator.ID
		v.CreatorName = creator.Name

		return v
	})
	if !ok {
		return voice.Voice{}, fmt.Errorf("%w: %s", ErrVoiceNotFound, voiceID)
	}

	return updated, nil
}

// ResolveCreator returns the creator with creatorID, falling back to the
// current operator when the id is empty or unknown.
func (s *Store) ResolveCreator(creatorID string) voice.Creator {
	if creatorID != "" {
		creator, ok := s.CreatorByID(creatorID)
		if ok {
			return creator
		}
	}

	return s.CurrentCreator()
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))

	for _, value := range values {
		if value == "" {
			continue
		}

		if _, ok := seen[value]; ok {
			continue
		}

		seen[value] = struct{}{}
		unique = append(unique, value)
	}

	return unique
}
