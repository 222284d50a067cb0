package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mmcdole/citadel/internal/browse"
	"github.com/mmcdole/citadel/internal/favorites"
)

// printPage waits for the current query to load and writes it as a table
func printPage(ctx context.Context, controller *browse.Controller, favs *favorites.Store, w io.Writer) error {
	v, err := waitSettled(ctx, controller)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, renderTable(v, favs.Snapshot()))
	return err
}

// waitSettled blocks until no fetch is in flight and returns the view
func waitSettled(ctx context.Context, controller *browse.Controller) (browse.View, error) {
	changed := make(chan struct{}, 1)
	unsubscribe := controller.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		v := controller.View()
		if !v.Fetching {
			return v, v.Err
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return v, ctx.Err()
		}
	}
}

// renderTable formats a view for non-interactive output
func renderTable(v browse.View, favs *favorites.Set) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "ID", "NAME", "STATUS", "SPECIES", "GENDER", "EPISODES")

	for _, c := range v.Items {
		star := ""
		if favs.Has(c.ID) {
			star = "★"
		}
		t.Row(star, strconv.Itoa(c.ID), c.Name, c.Status, c.Species, c.Gender, strconv.Itoa(c.EpisodeCount()))
	}

	footer := fmt.Sprintf("Page %d of %d · %d results\n", v.Page, max(v.TotalPages, 1), v.TotalCount)
	if len(v.Items) == 0 {
		return "No characters found\n" + footer
	}
	return t.Render() + "\n" + footer
}
