package tui

import (
	"context"
	"errors"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

var errNavigationPending = errors.New("a navigation request is already pending")

// navigator hands navigation requests to the running program. Requests are dropped
// while one is still waiting to be picked up.
type navigator struct {
	requests chan domain.PageRef
}

func newNavigator() *navigator {
	return &navigator{requests: make(chan domain.PageRef, 1)}
}

func (n *navigator) Navigate(ctx context.Context, ref domain.PageRef) error {
	select {
	case n.requests <- ref:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errNavigationPending
	}
}
