// Package crontab schedules the background maintenance jobs.
package crontab

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/config"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/conversation"
)

const (
	defaultSweepIntervalMinutes = 60
	jobTimeout                  = 5 * time.Minute
)

type Crontab struct {
	ctab          *crontab.Crontab
	conversations *conversation.Service
	cfg           *config.Config
	logger        zerolog.Logger
}

func NewCrontab(
	conversations *conversation.Service,
	cfg *config.Config,
	logger zerolog.Logger,
) *Crontab {
	return &Crontab{
		ctab:          crontab.New(),
		conversations: conversations,
		cfg:           cfg,
		logger:        logger,
	}
}

// Run schedules the retention sweep and blocks until ctx is cancelled.
func (c *Crontab) Run(ctx context.Context) error {
	if c.cfg.ConversationRetention > 0 {
		interval := c.cfg.ConversationSweepMinute
		if interval <= 0 {
			interval = defaultSweepIntervalMinutes
		}

		// run once on startup so a long-stopped server catches up
		c.sweepConversations(ctx)

		cronExpr := fmt.Sprintf("*/%d * * * *", interval)
		if err := c.ctab.AddJob(cronExpr, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			c.sweepConversations(jobCtx)
		}); err != nil {
			return fmt.Errorf("schedule retention sweep: %w", err)
		}
		c.logger.Info().
			Dur("retention", c.cfg.ConversationRetention).
			Int("interval_minutes", interval).
			Msg("conversation retention sweep scheduled")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) sweepConversations(ctx context.Context) {
	cutoff := time.Now().Add(-c.cfg.ConversationRetention)
	removed, err := c.conversations.PruneInactiveBefore(ctx, cutoff)
	if err != nil {
		c.logger.Error().Err(err).Msg("conversation retention sweep failed")
		return
	}
	if removed > 0 {
		c.logger.Info().Int64("removed", removed).Msg("pruned stale conversations")
	}
}
