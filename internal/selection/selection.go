// Package selection tracks the selected voice and the visibility of its
// details panel.
package selection

import "github.com/book-expert/voice-studio/internal/voice"

// State is the interaction state of the voice list. The zero value has no
// selection and a closed details panel.
type State struct {
	Selected       *voice.Voice
	DetailsVisible bool
}

// Select selects v and opens the details panel.
func (s State) Select(v voice.Voice) State {
	return State{Selected: &v, DetailsVisible: true}
}

// View selects v and opens the details panel.
func (s State) View(v voice.Voice) State {
	return State{Selected: &v, DetailsVisible: true}
}

// Play selects v without touching the details panel.
func (s State) Play(v voice.Voice) State {
	return State{Selected: &v, DetailsVisible: s.DetailsVisible}
}

// CloseDetails hides the details panel and keeps the selection.
func (s State) CloseDetails() State {
	return State{Selected: s.Selected, DetailsVisible: false}
}

// SelectedID returns the id of the selected voice, or "" with no selection.
func (s State) SelectedID() string {
	if s.Selected == nil {
		return ""
	}

	return s.Selected.ID
}

// Refresh replaces the selected voice with its current version from voices,
// keeping the selection in step with committed mutations.
func (s State) Refresh(voices []voice.Voice) State {
	if s.Selected == nil {
		return s
	}

	for _, v := range voices {
		if v.ID == s.Selected.ID {
			current := v

			return State{Selected: &current, DetailsVisible: s.DetailsVisible}
		}
	}

	return s
}
