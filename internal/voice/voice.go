// Package voice defines the entities managed by the voice studio: voices,
// reference speakers, speaker groups, creators and teams.
package voice

import (
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// CurrentCreatorID is the reserved creator id of the logged-in operator.
const CurrentCreatorID = "current"

// Recent generation limits.
const (
	MaxRecentGenerations = 5
	SnippetLength        = 50
	snippetEllipsis      = "..."
)

// Values given to voices materialized from a remote speaker.
const (
	customCategory = "Custom"
	customLanguage = "Custom"
	customTag      = "Custom"
	createdAtFmt   = "2006-01-02"
)

// Role is the permission level of a creator.
type Role string

// Creator roles.
const (
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator"
	RoleMember  Role = "member"
)

// Generation is one entry of a voice's recent generation history.
type Generation struct {
	ID   string `json:"id"   yaml:"id"`
	Text string `json:"text" yaml:"text"`
	Date string `json:"date" yaml:"date"`
}

// Voice is a named synthesis profile, either seeded or derived from an
// uploaded reference speaker.
type Voice struct {
	ID                string       `json:"id"                    yaml:"id"`
	Name              string       `json:"name"                  yaml:"name"`
	Description       string       `json:"description"           yaml:"description"`
	Category          string       `json:"category"              yaml:"category"`
	SpeakerID         string       `json:"speakerId"             yaml:"speakerId"`
	AudioID           string       `json:"audioId"               yaml:"audioId"`
	IsLegacy          bool         `json:"isLegacy"              yaml:"isLegacy"`
	Tags              []string     `json:"tags"                  yaml:"tags"`
	Language          string       `json:"language"              yaml:"language"`
	CreatedAt         string       `json:"createdAt"             yaml:"createdAt"`
	CreatorID         string       `json:"creatorId,omitempty"   yaml:"creatorId,omitempty"`
	CreatorName       string       `json:"creatorName,omitempty" yaml:"creatorName,omitempty"`
	TeamID            string       `json:"teamId,omitempty"      yaml:"teamId,omitempty"`
	RecentGenerations []Generation `json:"recentGenerations"     yaml:"recentGenerations"`
}

// OwnerID returns the creator that owns the voice. A voice without a
// creator belongs to the current operator.
func (v Voice) OwnerID() string {
	if v.CreatorID == "" {
		return CurrentCreatorID
	}

	return v.CreatorID
}

// HasTag reports whether the voice carries the exact tag.
func (v Voice) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// Identifies reports whether id names this voice as a synthesis target.
// Materialized voices share one id across id, speaker and audio; seeded
// voices may be addressed by any of the three.
func (v Voice) Identifies(id string) bool {
	return id != "" && (v.ID == id || v.AudioID == id || v.SpeakerID == id)
}

// WithGeneration returns a copy of the voice with gen prepended to its
// recent generations, keeping at most MaxRecentGenerations entries.
func (v Voice) WithGeneration(gen Generation) Voice {
	keep := min(len(v.RecentGenerations), MaxRecentGenerations-1)

	recent := make([]Generation, 0, keep+1)
	recent = append(recent, gen)
	recent = append(recent, v.RecentGenerations[:keep]...)

	v.RecentGenerations = recent

	return v
}

// Speaker is a server-side reference audio record.
type Speaker struct {
	Name          string `json:"name"           yaml:"name"`
	ID            string `json:"id"             yaml:"id"`
	Path          string `json:"path"           yaml:"path"`
	ReferenceText string `json:"reference_text" yaml:"reference_text"`
}

// SpeakerGroup is a named, client-defined set of speaker ids.
type SpeakerGroup struct {
	ID         string   `json:"id"         yaml:"id"`
	Name       string   `json:"name"       yaml:"name"`
	SpeakerIDs []string `json:"speakerIds" yaml:"speakerIds"`
}

// Contains reports whether the group references speakerID.
func (g SpeakerGroup) Contains(speakerID string) bool {
	for _, id := range g.SpeakerIDs {
		if id == speakerID {
			return true
		}
	}

	return false
}

// Creator is an identity to whom voices can be attributed.
type Creator struct {
	ID        string   `json:"id"                  yaml:"id"`
	Name      string   `json:"name"                yaml:"name"`
	Email     string   `json:"email"               yaml:"email"`
	Role      Role     `json:"role"                yaml:"role"`
	AvatarURL string   `json:"avatarUrl,omitempty" yaml:"avatarUrl,omitempty"`
	Teams     []string `json:"teams,omitempty"     yaml:"teams,omitempty"`
}

// Team is a named set of creators.
type Team struct {
	ID          string   `json:"id"                    yaml:"id"`
	Name        string   `json:"name"                  yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	OwnerID     string   `json:"ownerId"               yaml:"ownerId"`
	Members     []string `json:"members"               yaml:"members"`
}

// HasMember reports whether creatorID belongs to the team.
func (t Team) HasMember(creatorID string) bool {
	for _, member := range t.Members {
		if member == creatorID {
			return true
		}
	}

	return false
}

// AddVoiceToList appends candidate to existing unless a voice with the
// same id is already present, in which case existing is returned as is.
// The input slice is never modified.
func AddVoiceToList(existing []Voice, candidate Voice) []Voice {
	for _, v := range existing {
		if v.ID == candidate.ID {
			return existing
		}
	}

	out := make([]Voice, len(existing), len(existing)+1)
	copy(out, existing)

	return append(out, candidate)
}

// FromSpeaker materializes a voice from a remote speaker. The speaker id
// becomes the voice id, speaker id and audio id.
func FromSpeaker(speaker Speaker, now time.Time) Voice {
	return Voice{
		ID:                speaker.ID,
		Name:              speaker.Name,
		Description:       speaker.ReferenceText,
		Category:          customCategory,
		SpeakerID:         speaker.ID,
		AudioID:           speaker.ID,
		IsLegacy:          false,
		Tags:              []string{customTag},
		Language:          customLanguage,
		CreatedAt:         now.UTC().Format(createdAtFmt),
		CreatorID:         CurrentCreatorID,
		CreatorName:       "",
		TeamID:            "",
		RecentGenerations: []Generation{},
	}
}

// NewGeneration builds a history entry for text synthesized at generatedAt.
func NewGeneration(id, text string, generatedAt time.Time) Generation {
	return Generation{
		ID:   id,
		Text: Snippet(text),
		Date: humanize.Time(generatedAt),
	}
}

// Snippet truncates text to SnippetLength runes followed by an ellipsis.
// Shorter text is returned unchanged.
func Snippet(text string) string {
	if utf8.RuneCountInString(text) <= SnippetLength {
		return text
	}

	runes := []rune(text)

	return string(runes[:SnippetLength]) + snippetEllipsis
}
