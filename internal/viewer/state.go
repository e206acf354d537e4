// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package viewer holds the server-side view state of open PDF documents.

Each open view owns a [Controller]: current page, zoom, rotation, display mode
and in-document search. Rendering and text extraction are delegated to an
[Engine]; the controller only consumes page count, page size and page text.

State transitions:

	loading ──► ready
	   │
	   └──────► error   (terminal; every command is a no-op)

Synchronous intents go through [Reduce]. Load and search are the only
asynchronous operations and their completions are applied under the
controller's lock only if they are still current.
*/
package viewer

import "math"

// Phase is the lifecycle stage of a view.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

// FitMode is a zoom level resolved against the viewport at render time.
type FitMode string

const (
	FitWidth   FitMode = "fit-width"
	FitPage    FitMode = "fit-page"
	ActualSize FitMode = "actual-size"
)

// FitModes lists every accepted fit mode.
var FitModes = []FitMode{FitWidth, FitPage, ActualSize}

// DisplayMode controls how many pages are laid out at once.
type DisplayMode string

const (
	DisplaySingle     DisplayMode = "single"
	DisplayContinuous DisplayMode = "continuous"
	DisplayFacing     DisplayMode = "facing"
)

// DisplayModes lists every accepted display mode.
var DisplayModes = []DisplayMode{DisplaySingle, DisplayContinuous, DisplayFacing}

// Zoom bounds for numeric scales.
const (
	MinScale = 0.25
	MaxScale = 5.0
)

// Zoom is either a numeric scale or a fit mode. Exactly one field is set.
type Zoom struct {
	Scale float64 `json:"scale,omitempty"`
	Fit   FitMode `json:"fit,omitempty"`
}

// ScaleZoom returns a numeric zoom clamped into [MinScale, MaxScale].
func ScaleZoom(scale float64) Zoom {
	return Zoom{Scale: ClampScale(scale)}
}

// ClampScale bounds scale to [MinScale, MaxScale]. NaN maps to 1.
func ClampScale(scale float64) float64 {
	if math.IsNaN(scale) {
		return 1
	}
	return math.Min(MaxScale, math.Max(MinScale, scale))
}

// Match is one occurrence of the search query. Offset counts runes into the
// page's extracted text.
type Match struct {
	Page   int `json:"page"`
	Offset int `json:"offset"`
}

// noActiveResult marks ActiveResult as undefined.
const noActiveResult = -1

// State is the full view state of one document.
type State struct {
	Phase       Phase
	Error       string
	TotalPages  int
	CurrentPage int
	Zoom        Zoom
	Rotation    int
	DisplayMode DisplayMode

	SearchQuery   string
	SearchResults []Match
	ActiveResult  int
	Searching     bool
}

// NewState returns the initial loading state.
func NewState() State {
	return State{
		Phase:        PhaseLoading,
		Zoom:         Zoom{Fit: FitWidth},
		DisplayMode:  DisplaySingle,
		ActiveResult: noActiveResult,
	}
}

// ActiveMatch returns the highlighted match, if any.
func (s State) ActiveMatch() (Match, bool) {
	if s.ActiveResult < 0 || s.ActiveResult >= len(s.SearchResults) {
		return Match{}, false
	}
	return s.SearchResults[s.ActiveResult], true
}

// VisiblePages returns the pages on screen for the current display mode.
// Facing mode pairs odd pages with the following even page.
func (s State) VisiblePages() []int {
	if s.Phase != PhaseReady || s.TotalPages == 0 {
		return nil
	}

	if s.DisplayMode != DisplayFacing {
		return []int{s.CurrentPage}
	}

	left := s.CurrentPage
	if left%2 == 0 {
		left--
	}
	if left+1 <= s.TotalPages {
		return []int{left, left + 1}
	}
	return []int{left}
}

func (s State) clone() State {
	if s.SearchResults != nil {
		s.SearchResults = append([]Match(nil), s.SearchResults...)
	}
	return s
}

// Snapshot is the JSON form of [State].
type Snapshot struct {
	Phase             Phase       `json:"phase"`
	Error             string      `json:"error,omitempty"`
	TotalPages        int         `json:"total_pages"`
	CurrentPage       int         `json:"current_page"`
	VisiblePages      []int       `json:"visible_pages"`
	Zoom              Zoom        `json:"zoom"`
	Rotation          int         `json:"rotation"`
	DisplayMode       DisplayMode `json:"display_mode"`
	SearchQuery       string      `json:"search_query"`
	SearchResults     []Match     `json:"search_results"`
	ActiveResultIndex *int        `json:"active_result_index,omitempty"`
	Searching         bool        `json:"searching"`
}

// Snapshot converts the state for transport.
func (s State) Snapshot() Snapshot {
	snapshot := Snapshot{
		Phase:         s.Phase,
		Error:         s.Error,
		TotalPages:    s.TotalPages,
		CurrentPage:   s.CurrentPage,
		VisiblePages:  s.VisiblePages(),
		Zoom:          s.Zoom,
		Rotation:      s.Rotation,
		DisplayMode:   s.DisplayMode,
		SearchQuery:   s.SearchQuery,
		SearchResults: append([]Match{}, s.SearchResults...),
		Searching:     s.Searching,
	}
	if _, ok := s.ActiveMatch(); ok {
		index := s.ActiveResult
		snapshot.ActiveResultIndex = &index
	}
	return snapshot
}

// # Effective scale

// Size is a width and height in PDF points (1/72 inch) or CSS pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EffectiveScale resolves the state's zoom against a viewport and the size of
// the current page. Fit modes account for rotation and, in facing mode, for
// two pages side by side. Degenerate sizes resolve to 1.
func (s State) EffectiveScale(page Size, viewport Size) float64 {
	if s.Zoom.Fit == "" {
		return ClampScale(s.Zoom.Scale)
	}

	if s.Zoom.Fit == ActualSize {
		return 1
	}

	if page.Width <= 0 || page.Height <= 0 || viewport.Width <= 0 || viewport.Height <= 0 {
		return 1
	}

	if s.Rotation == 90 || s.Rotation == 270 {
		page.Width, page.Height = page.Height, page.Width
	}
	if s.DisplayMode == DisplayFacing {
		page.Width *= 2
	}

	widthScale := viewport.Width / page.Width
	if s.Zoom.Fit == FitWidth {
		return ClampScale(widthScale)
	}

	return ClampScale(math.Min(widthScale, viewport.Height/page.Height))
}
