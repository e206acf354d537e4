// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

// Command is a synchronous user intent applied by [Reduce].
type Command interface {
	apply(State) State
}

// Reduce applies cmd to s and returns the new state. Commands are no-ops
// unless the view is ready.
func Reduce(s State, cmd Command) State {
	if s.Phase != PhaseReady || cmd == nil {
		return s
	}
	return cmd.apply(s)
}

// GoToPage moves to Page, clamped into [1, TotalPages].
type GoToPage struct{ Page int }

func (c GoToPage) apply(s State) State {
	target := min(max(c.Page, 1), s.TotalPages)
	if target == s.CurrentPage {
		return s
	}
	s.CurrentPage = target
	return s
}

// NextPage moves one page forward.
type NextPage struct{}

func (NextPage) apply(s State) State { return GoToPage{Page: s.CurrentPage + 1}.apply(s) }

// PreviousPage moves one page back.
type PreviousPage struct{}

func (PreviousPage) apply(s State) State { return GoToPage{Page: s.CurrentPage - 1}.apply(s) }

// SetZoom sets a numeric scale, clamped into [MinScale, MaxScale].
type SetZoom struct{ Scale float64 }

func (c SetZoom) apply(s State) State {
	s.Zoom = ScaleZoom(c.Scale)
	return s
}

// SetFitMode stores a fit mode; the numeric scale is resolved per render.
type SetFitMode struct{ Mode FitMode }

func (c SetFitMode) apply(s State) State {
	for _, mode := range FitModes {
		if mode == c.Mode {
			s.Zoom = Zoom{Fit: c.Mode}
		}
	}
	return s
}

// RotateDirection is the sign of a quarter turn.
type RotateDirection int

const (
	Clockwise        RotateDirection = 1
	CounterClockwise RotateDirection = -1
)

// Rotate turns the page a quarter turn.
type Rotate struct{ Direction RotateDirection }

func (c Rotate) apply(s State) State {
	step := 90
	if c.Direction < 0 {
		step = -90
	}
	s.Rotation = ((s.Rotation+step)%360 + 360) % 360
	return s
}

// SetDisplayMode switches layout.
type SetDisplayMode struct{ Mode DisplayMode }

func (c SetDisplayMode) apply(s State) State {
	for _, mode := range DisplayModes {
		if mode == c.Mode {
			s.DisplayMode = c.Mode
		}
	}
	return s
}

// NextMatch advances to the next search match, wrapping at the end, and
// shows its page.
type NextMatch struct{}

func (NextMatch) apply(s State) State { return stepMatch(s, 1) }

// PreviousMatch moves to the previous search match, wrapping at the start.
type PreviousMatch struct{}

func (PreviousMatch) apply(s State) State { return stepMatch(s, -1) }

func stepMatch(s State, step int) State {
	count := len(s.SearchResults)
	if count == 0 {
		return s
	}

	current := s.ActiveResult
	if current < 0 {
		current = 0
		if step > 0 {
			current = count - 1
		}
	}

	s.ActiveResult = ((current+step)%count + count) % count
	s.CurrentPage = s.SearchResults[s.ActiveResult].Page
	return s
}

// # Asynchronous completions

func loaded(s State, totalPages int) State {
	s.Phase = PhaseReady
	s.Error = ""
	s.TotalPages = totalPages
	s.CurrentPage = 1
	return s
}

func failed(s State, reason string) State {
	s.Phase = PhaseError
	s.Error = reason
	s.Searching = false
	return s
}

func searchCleared(s State) State {
	s.SearchQuery = ""
	s.SearchResults = nil
	s.ActiveResult = noActiveResult
	s.Searching = false
	return s
}

func searchStarted(s State, query string) State {
	s.SearchQuery = query
	s.SearchResults = nil
	s.ActiveResult = noActiveResult
	s.Searching = true
	return s
}

func searchCompleted(s State, query string, results []Match) State {
	s.SearchQuery = query
	s.SearchResults = results
	s.Searching = false
	s.ActiveResult = noActiveResult
	if len(results) > 0 {
		s.ActiveResult = 0
		s.CurrentPage = results[0].Page
	}
	return s
}
