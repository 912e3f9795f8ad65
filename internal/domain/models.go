package domain

import "strings"

// Owner is the account that owns a repository
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Repository is a GitHub repository as returned by the search endpoint.
// Values are built by decoding a server response and never mutated.
type Repository struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	FullName        string  `json:"full_name"`
	Owner           Owner   `json:"owner"`
	Description     *string `json:"description"`
	Language        *string `json:"language"`
	StargazersCount int     `json:"stargazers_count"`
	WatchersCount   int     `json:"watchers_count"`
	ForksCount      int     `json:"forks_count"`
	OpenIssuesCount int     `json:"open_issues_count"`
}

// HTMLURL returns the github.com page for the repository
func (r Repository) HTMLURL() string {
	return "https://github.com/" + r.FullName
}

// DescriptionText returns the description or "" when the server sent null
func (r Repository) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// LanguageText returns the language or "" when the server sent null
func (r Repository) LanguageText() string {
	if r.Language == nil {
		return ""
	}
	return *r.Language
}

// SearchState is the published outcome of the search pipeline
type SearchState struct {
	Results   []Repository
	IsLoading bool
	Error     string // "" means no error
}

// HasError reports whether the last search failed
func (s SearchState) HasError() bool {
	return s.Error != ""
}

// Clone returns a copy whose Results slice is not shared with s
func (s SearchState) Clone() SearchState {
	c := s
	if s.Results != nil {
		c.Results = make([]Repository, len(s.Results))
		copy(c.Results, s.Results)
	}
	return c
}

// IsBlankQuery reports whether a query is empty or whitespace-only
func IsBlankQuery(query string) bool {
	return strings.TrimSpace(query) == ""
}
