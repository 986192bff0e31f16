// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ProposalCanceller interface {
	CancelExpiredProposals(ctx context.Context) (int, error)
}

// StartExpiryJob periodically cancels active proposals whose expiry has
// elapsed until the context is cancelled
func StartExpiryJob(ctx context.Context, canceller ProposalCanceller, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Debug().Msg("Starting expired proposals sweep")
			cancelled, err := canceller.CancelExpiredProposals(ctx)
			if err != nil {
				log.Err(err).Msg("expired proposals sweep failed")
				continue
			}
			if cancelled > 0 {
				log.Info().Msgf("Cancelled %d expired proposals", cancelled)
			}
		}
	}
}
