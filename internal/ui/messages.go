package ui

import (
	"time"

	"ghsearch/internal/domain"
)

// StateMsg delivers a search state replacement from the controller
type StateMsg struct {
	State domain.SearchState
}

// tickMsg is sent on a timer for the loading spinner
type tickMsg time.Time

// debounceMsg fires when typing has paused; seq identifies the keystroke
type debounceMsg struct {
	seq int
}

// browserOpenedMsg contains the result of opening a repository page
type browserOpenedMsg struct {
	fullName string
	url      string
	err      error
}

// configSavedMsg contains the result of persisting the theme
type configSavedMsg struct {
	err error
}

// helpPagerMsg contains the result of the help pager
type helpPagerMsg struct {
	err error
}

// clearStatusMsg clears a transient status message
type clearStatusMsg struct {
	id int
}

// pauseRenderingMsg stops rendering while an external pager owns the terminal
type pauseRenderingMsg struct{}

// resumeRenderingMsg restarts rendering after the pager exits
type resumeRenderingMsg struct{}
