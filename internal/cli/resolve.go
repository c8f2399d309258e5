package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/goaltree/internal/projection"
	"github.com/alexanderramin/goaltree/internal/repository"
	"github.com/alexanderramin/goaltree/internal/tree"
)

// currentView returns the newest usable view. A tree integrity fault is
// reported on stderr by the caller; the last good view is still usable.
func currentView(ctx context.Context, app *App) (*projection.View, error) {
	view, err := app.Goals.View(ctx)
	if view != nil && errors.Is(err, tree.ErrGraphIntegrity) {
		return view, nil
	}
	return view, err
}

// resolveNodeID resolves a goal identifier which can be:
//   - A full UUID
//   - A unique UUID prefix, such as the 8 characters shown by ls
func resolveNodeID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("goal ID must not be empty")
	}
	view, err := currentView(ctx, app)
	if err != nil {
		return "", err
	}
	if _, ok := view.Get(input); ok {
		return input, nil
	}

	var matches []string
	for _, n := range view.Nodes() {
		if strings.HasPrefix(n.ID, input) {
			matches = append(matches, n.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("goal %q: %w", input, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("goal ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
