package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"ghsearch/internal/domain"
)

// searchResponse is the body of GET /search/repositories. Pointer fields
// tell a missing value apart from a zero one.
type searchResponse struct {
	TotalCount *int                `json:"total_count"`
	Items      []repositoryPayload `json:"items"`
}

type ownerPayload struct {
	Login     *string `json:"login"`
	AvatarURL *string `json:"avatar_url"`
}

type repositoryPayload struct {
	ID              *int64        `json:"id"`
	Name            *string       `json:"name"`
	FullName        *string       `json:"full_name"`
	Owner           *ownerPayload `json:"owner"`
	Description     *string       `json:"description"`
	Language        *string       `json:"language"`
	StargazersCount *int          `json:"stargazers_count"`
	WatchersCount   *int          `json:"watchers_count"`
	ForksCount      *int          `json:"forks_count"`
	OpenIssuesCount *int          `json:"open_issues_count"`
}

// decodeSearchResponse reads a search response body into repositories,
// keeping the server's order.
func decodeSearchResponse(r io.Reader) ([]domain.Repository, error) {
	var resp searchResponse
	dec := json.NewDecoder(r)
	if err := dec.Decode(&resp); err != nil {
		return nil, &DecodeError{Err: err}
	}
	// the body must hold exactly one JSON value
	if _, err := dec.Token(); err != io.EOF {
		return nil, &DecodeError{Err: errors.New("unexpected data after the response body")}
	}
	if resp.TotalCount == nil {
		return nil, &DecodeError{Err: missing("total_count", "$")}
	}
	if resp.Items == nil {
		return nil, &DecodeError{Err: missing("items", "$")}
	}

	repos := make([]domain.Repository, 0, len(resp.Items))
	for i, item := range resp.Items {
		repo, err := item.toDomain(fmt.Sprintf("$.items[%d]", i))
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

func (p repositoryPayload) toDomain(path string) (domain.Repository, error) {
	switch {
	case p.ID == nil:
		return domain.Repository{}, missing("id", path)
	case p.Name == nil:
		return domain.Repository{}, missing("name", path)
	case p.FullName == nil:
		return domain.Repository{}, missing("full_name", path)
	case p.Owner == nil:
		return domain.Repository{}, missing("owner", path)
	case p.Owner.Login == nil:
		return domain.Repository{}, missing("login", path+".owner")
	case p.Owner.AvatarURL == nil:
		return domain.Repository{}, missing("avatar_url", path+".owner")
	}

	counts := []struct {
		name  string
		value *int
	}{
		{"stargazers_count", p.StargazersCount},
		{"watchers_count", p.WatchersCount},
		{"forks_count", p.ForksCount},
		{"open_issues_count", p.OpenIssuesCount},
	}
	for _, c := range counts {
		if c.value == nil {
			return domain.Repository{}, missing(c.name, path)
		}
		if *c.value < 0 {
			return domain.Repository{}, fmt.Errorf("negative value %d for %q at %s", *c.value, c.name, path)
		}
	}

	return domain.Repository{
		ID:       *p.ID,
		Name:     *p.Name,
		FullName: *p.FullName,
		Owner: domain.Owner{
			Login:     *p.Owner.Login,
			AvatarURL: *p.Owner.AvatarURL,
		},
		Description:     p.Description,
		Language:        p.Language,
		StargazersCount: *p.StargazersCount,
		WatchersCount:   *p.WatchersCount,
		ForksCount:      *p.ForksCount,
		OpenIssuesCount: *p.OpenIssuesCount,
	}, nil
}

func missing(field, path string) error {
	return fmt.Errorf("required value %q missing at %s", field, path)
}
