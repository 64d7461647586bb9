// Package selection_test tests the selection state transitions.
package selection_test

import (
	"testing"

	"github.com/book-expert/voice-studio/internal/selection"
	"github.com/book-expert/voice-studio/internal/voice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_PlayKeepsDetailsHidden(t *testing.T) {
	t.Parallel()

	x := voice.Voice{ID: "x", Name: "X"}

	state := selection.State{}.Play(x)

	require.NotNil(t, state.Selected)
	assert.Equal(t, "x", state.Selected.ID)
	assert.False(t, state.DetailsVisible)
}

func TestState_PlayKeepsDetailsOpen(t *testing.T) {
	t.Parallel()

	state := selection.State{}.View(voice.Voice{ID: "a"}).Play(voice.Voice{ID: "b"})

	assert.Equal(t, "b", state.SelectedID())
	assert.True(t, state.DetailsVisible)
}

func TestState_SelectAndViewOpenDetails(t *testing.T) {
	t.Parallel()

	x := voice.Voice{ID: "x"}

	viewed := selection.State{}.View(x)
	selected := selection.State{}.Select(x)

	assert.Equal(t, viewed, selected)
	assert.Equal(t, "x", viewed.SelectedID())
	assert.True(t, viewed.DetailsVisible)
}

func TestState_CloseDetailsKeepsSelection(t *testing.T) {
	t.Parallel()

	state := selection.State{}.View(voice.Voice{ID: "x"}).CloseDetails()

	assert.Equal(t, "x", state.SelectedID())
	assert.False(t, state.DetailsVisible)

	reopened := state.View(*state.Selected)
	assert.Equal(t, "x", reopened.SelectedID())
	assert.True(t, reopened.DetailsVisible)
}

func TestState_ZeroValue(t *testing.T) {
	t.Parallel()

	var state selection.State

	assert.Empty(t, state.SelectedID())
	assert.False(t, state.DetailsVisible)
	assert.Equal(t, state, state.Refresh(voice.SeedVoices()))
}

func TestState_Refresh(t *testing.T) {
	t.Parallel()

	state := selection.State{}.Play(voice.Voice{ID: "1", Name: "Old"})

	refreshed := state.Refresh([]voice.Voice{{ID: "1", Name: "New"}})

	require.NotNil(t, refreshed.Selected)
	assert.Equal(t, "New", refreshed.Selected.Name)
	assert.False(t, refreshed.DetailsVisible)
}
