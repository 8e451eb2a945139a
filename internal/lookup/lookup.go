// Package lookup provides one-shot queries against the EDRP API
package lookup

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/edrp-bridge/internal/config"
)

// Querier answers the read queries of the EDRP API.
type Querier interface {
	QueryActive(ctx context.Context) ([]string, bool)
	QueryActiveCount(ctx context.Context) (int, bool)
}

// Run checks if any lookup flags are set and executes the corresponding query,
// writing the result to w. Returns true if a query was executed (indicating the program should exit).
func Run(ctx context.Context, cfg config.Lookup, q Querier, w io.Writer) bool {
	if !cfg.Active && !cfg.ActiveCount {
		return false
	}

	if cfg.ActiveCount {
		log.Info().Msg("Fetching active commanders count...")

		count, ok := q.QueryActiveCount(ctx)
		if !ok {
			log.Error().Msg("Active commanders count unavailable")
		} else {
			_, _ = fmt.Fprintf(w, "active: %d\n", count)
		}
	}

	if cfg.Active {
		log.Info().Msg("Fetching active commanders...")

		names, ok := q.QueryActive(ctx)
		switch {
		case !ok:
			log.Error().Msg("Active commanders unavailable")
		case len(names) == 0:
			log.Info().Msg("No active commanders")
		default:
			for _, name := range names {
				_, _ = fmt.Fprintln(w, name)
			}
		}
	}

	return true
}
