package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"ghsearch/internal/domain"
)

const maxDescription = 60

// oneShotController is the part of the search service runOnce needs
type oneShotController interface {
	SetQuery(query string)
	Subscribe(fn func(domain.SearchState)) func()
}

// runOnce searches once and prints the results. A failed search is returned
// as an error carrying the message the UI would show.
func runOnce(ctx context.Context, ctrl oneShotController, query string, asJSON bool, w io.Writer) error {
	done := make(chan domain.SearchState, 1)
	unsubscribe := ctrl.Subscribe(func(state domain.SearchState) {
		if state.IsLoading {
			return
		}
		select {
		case done <- state:
		default:
		}
	})
	defer unsubscribe()

	ctrl.SetQuery(query)

	var state domain.SearchState
	select {
	case state = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if state.HasError() {
		return errors.New(state.Error)
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state.Results)
	}
	return printTable(w, state.Results)
}

// printTable outputs repositories in tabular format
func printTable(w io.Writer, repos []domain.Repository) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REPOSITORY\tSTARS\tFORKS\tLANGUAGE\tDESCRIPTION")
	for _, r := range repos {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
			r.FullName,
			r.StargazersCount,
			r.ForksCount,
			orDash(r.LanguageText()),
			orDash(shorten(r.DescriptionText(), maxDescription)),
		)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func shorten(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
