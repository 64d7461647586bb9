// Package filter computes the visible subset of the voice catalog from the
// dashboard's search text, active tab, category and language filters.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/book-expert/voice-studio/internal/voice"
)

// communityTag marks voices contributed to the community tab.
const communityTag = "Social"

// ErrUnknownTab is returned by ParseTab for a name outside the closed set.
var ErrUnknownTab = errors.New("unknown tab")

// Tab selects one of the dashboard's voice tabs.
type Tab int

// Dashboard tabs.
const (
	TabAll Tab = iota
	TabPersonal
	TabCommunity
	TabDefault
)

var tabNames = map[Tab]string{
	TabAll:       "all",
	TabPersonal:  "personal",
	TabCommunity: "community",
	TabDefault:   "default",
}

// String returns the wire name of the tab.
func (t Tab) String() string {
	name, ok := tabNames[t]
	if !ok {
		return fmt.Sprintf("tab(%d)", int(t))
	}

	return name
}

// ParseTab converts a tab name to its Tab. An empty name selects TabAll.
func ParseTab(name string) (Tab, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return TabAll, nil
	}

	for tab, tabName := range tabNames {
		if tabName == normalized {
			return tab, nil
		}
	}

	return TabAll, fmt.Errorf("%w: %q", ErrUnknownTab, name)
}

// Filters holds the four inputs of the filtering pipeline. The zero value
// filters nothing.
type Filters struct {
	Search     string
	Tab        Tab
	Categories []string
	Languages  []string
}

// IsZero reports whether the filters let every voice through.
func (f Filters) IsZero() bool {
	return f.Search == "" && f.Tab == TabAll && len(f.Categories) == 0 && len(f.Languages) == 0
}

// Apply returns the voices that survive the filters, in source order.
// Stages run search, tab, category, then language. The input is not modified.
func Apply(voices []voice.Voice, filters Filters) []voice.Voice {
	result := make([]voice.Voice, 0, len(voices))
	result = append(result, voices...)

	result = keep(result, matchSearch(filters.Search))
	result = keep(result, matchTab(filters.Tab))
	result = keep(result, matchAnyOf(filters.Categories, func(v voice.Voice) string { return v.Category }))
	result = keep(result, matchAnyOf(filters.Languages, func(v voice.Voice) string { return v.Language }))

	return result
}

// predicate returns nil when the stage is a pass-through.
type predicate func(voice.Voice) bool

func keep(voices []voice.Voice, match predicate) []voice.Voice {
	if match == nil {
		return voices
	}

	survivors := voices[:0]

	for _, v := range voices {
		if match(v) {
			survivors = append(survivors, v)
		}
	}

	return survivors
}

func matchSearch(query string) predicate {
	if query == "" {
		return nil
	}

	needle := strings.ToLower(query)

	return func(v voice.Voice) bool {
		return strings.Contains(strings.ToLower(v.Name), needle) ||
			strings.Contains(strings.ToLower(v.Description), needle)
	}
}

func matchTab(tab Tab) predicate {
	switch tab {
	case TabPersonal:
		return func(v voice.Voice) bool { return !v.IsLegacy }
	case TabCommunity:
		return func(v voice.Voice) bool { return v.HasTag(communityTag) }
	case TabDefault:
		return func(v voice.Voice) bool { return v.IsLegacy }
	case TabAll:
		return nil
	default:
		return nil
	}
}

func matchAnyOf(allowed []string, field func(voice.Voice) string) predicate {
	if len(allowed) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(allowed))
	for _, value := range allowed {
		set[value] = struct{}{}
	}

	return func(v voice.Voice) bool {
		_, ok := set[field(v)]

		return ok
	}
}

// Facets lists the distinct values of field across voices in first-seen
// order, for building filter menus.
func Facets(voices []voice.Voice, field func(voice.Voice) string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)

	for _, v := range voices {
		value := field(v)
		if value == "" {
			continue
		}

		if _, ok := seen[value]; ok {
			continue
		}

		seen[value] = struct{}{}
		values = append(values, value)
	}

	return values
}
