package catalog

import "github.com/book-expert/voice-studio/internal/voice"

// SpeakerGroupByID returns the group with the given id.
func (s *Store) SpeakerGroupByID(groupID string) (voice.SpeakerGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.groupByIDLocked(groupID)
}

// SpeakersByGroupID returns the speakers referenced by the group, in the
// order of the speaker collection. Unknown groups and dangling speaker ids
// resolve to no members.
func (s *Store) SpeakersByGroupID(groupID string) []voice.Speaker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groupByIDLocked(groupID)
	if !ok {
		return []voice.Speaker{}
	}

	members := make([]voice.Speaker, 0, len(group.SpeakerIDs))

	for _, speaker := range s.speakers {
		if group.Contains(speaker.ID) {
			members = append(members, speaker)
		}
	}

	return members
}

// VoicesByCreator returns the voices owned by creatorID.
func (s *Store) VoicesByCreator(creatorID string) []voice.Voice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make([]voice.Voice, 0)

	for _, v := range s.voices {
		if v.OwnerID() == creatorID {
			owned = append(owned, v)
		}
	}

	return owned
}

// VoicesByTeam returns the voices tagged with the team or owned by one of
// its members. Unknown teams have no voices.
func (s *Store) VoicesByTeam(teamID string) []voice.Voice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, ok := s.teamByIDLocked(teamID)
	if !ok {
		return []voice.Voice{}
	}

	matched := make([]voice.Voice, 0)

	for _, v := range s.voices {
		if v.TeamID == teamID || team.HasMember(v.OwnerID()) {
			matched = append(matched, v)
		}
	}

	return matched
}

// CreatorByID returns the creator with the given id.
func (s *Store) CreatorByID(creatorID string) (voice.Creator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.creatorByIDLocked(creatorID)
}

// CurrentCreator returns the logged-in operator.
func (s *Store) CurrentCreator() voice.Creator {
	creator, _ := s.CreatorByID(voice.CurrentCreatorID)

	return creator
}

// TeamByID returns the team with the given id.
func (s *Store) TeamByID(teamID string) (voice.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.teamByIDLocked(teamID)
}

func (s *Store) groupByIDLocked(groupID string) (voice.SpeakerGroup, bool) {
	for _, group := range s.groups {
		if group.ID == groupID {
			return group, true
		}
	}

	return voice.SpeakerGroup{}, false
}

func (s *Store) creatorByIDLocked(creatorID string) (voice.Creator, bool) {
	for _, creator := range s.creators {
		if creator.ID == creatorID {
			return creator, true
		}
	}

	return voice.Creator{}, false
}

func (s *Store) teamByIDLocked(teamID string) (voice.Team, bool) {
	for _, team := range s.teams {
		if team.ID == teamID {
			return team, true
		}
	}

	return voice.Team{}, false
}
