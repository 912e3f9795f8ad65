package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryChanged     EventType = "QueryChanged"
	EventSearchStarted    EventType = "SearchStarted"
	EventSearchCompleted  EventType = "SearchCompleted"
	EventSearchFailed     EventType = "SearchFailed"
	EventSearchDiscarded  EventType = "SearchDiscarded"
	EventStateChanged     EventType = "StateChanged"
	EventThemeChanged     EventType = "ThemeChanged"
	EventConfigLoaded     EventType = "ConfigLoaded"
	EventConfigSaved      EventType = "ConfigSaved"
	EventRepositoryOpened EventType = "RepositoryOpened"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryChangedEvent is emitted whenever the controller records a new query
type QueryChangedEvent struct {
	Query string
	Blank bool
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// SearchStartedEvent is emitted right before a request is sent
type SearchStartedEvent struct {
	Query string
	Seq   uint64
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when the latest request succeeds
type SearchCompletedEvent struct {
	Query       string
	Seq         uint64
	ResultCount int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the latest request fails
type SearchFailedEvent struct {
	Query string
	Seq   uint64
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// SearchDiscardedEvent is emitted when a superseded request finishes
type SearchDiscardedEvent struct {
	Query string
	Seq   uint64
}

func (e SearchDiscardedEvent) Type() EventType { return EventSearchDiscarded }

// StateChangedEvent carries every replacement of the search state.
// Version increases with each replacement.
type StateChangedEvent struct {
	State   SearchState
	Version uint64
}

func (e StateChangedEvent) Type() EventType { return EventStateChanged }

// ThemeChangedEvent is emitted when the user toggles the color theme
type ThemeChangedEvent struct {
	Dark bool
}

func (e ThemeChangedEvent) Type() EventType { return EventThemeChanged }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }

// RepositoryOpenedEvent is emitted when a repository page is opened in the browser
type RepositoryOpenedEvent struct {
	FullName string
	URL      string
	Err      error
}

func (e RepositoryOpenedEvent) Type() EventType { return EventRepositoryOpened }
