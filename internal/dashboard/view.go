package dashboard

import (
	"slices"

	"github.com/book-expert/voice-studio/internal/filter"
	"github.com/book-expert/voice-studio/internal/selection"
	"github.com/book-expert/voice-studio/internal/voice"
)

// SetSearchQuery sets the free-text search.
func (s *Session) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters.Search = query
}

// SetActiveTab sets the active tab.
func (s *Session) SetActiveTab(tab filter.Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters.Tab = tab
}

// SetCategoryFilter replaces the selected categories. An empty list
// disables the category stage.
func (s *Session) SetCategoryFilter(categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters.Categories = slices.Clone(categories)
}

// SetLanguageFilter replaces the selected languages. An empty list
// disables the language stage.
func (s *Session) SetLanguageFilter(languages []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters.Languages = slices.Clone(languages)
}

// ClearAllFilters resets the search text, the tab and both facet filters.
func (s *Session) ClearAllFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = filter.Filters{}
}

// Filters returns a copy of the active filters.
func (s *Session) Filters() filter.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filter.Filters{
		Search:     s.filters.Search,
		Tab:        s.filters.Tab,
		Categories: slices.Clone(s.filters.Categories),
		Languages:  slices.Clone(s.filters.Languages),
	}
}

// FilteredVoices recomputes the visible list from the current voices and
// filters.
func (s *Session) FilteredVoices() []voice.Voice {
	return filter.Apply(s.store.Voices(), s.Filters())
}

// Categories lists the distinct voice categories in catalog order.
func (s *Session) Categories() []string {
	return filter.Facets(s.store.Voices(), func(v voice.Voice) string { return v.Category })
}

// Languages lists the distinct voice languages in catalog order.
func (s *Session) Languages() []string {
	return filter.Facets(s.store.Voices(), func(v voice.Voice) string { return v.Language })
}

// SelectVoice selects v and opens its details.
func (s *Session) SelectVoice(v voice.Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = s.selection.Select(v)
}

// ViewVoice selects v and opens its details.
func (s *Session) ViewVoice(v voice.Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = s.selection.View(v)
}

// PlayVoice selects v and leaves the details panel as it is.
func (s *Session) PlayVoice(v voice.Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = s.selection.Play(v)
}

// CloseDetails hides the details panel.
func (s *Session) CloseDetails() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = s.selection.CloseDetails()
}

// Selection returns the selection state with the selected voice as it
// currently stands in the catalog.
func (s *Session) Selection() selection.State {
	s.mu.Lock()
	state := s.selection
	s.mu.Unlock()

	return state.Refresh(s.store.Voices())
}
