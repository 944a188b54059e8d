// Package pipeline joins account entries with their customers' alert settings,
// runs the alert engine and routes the results to the channel publisher.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/sheikh-saqib/balance-alerts/internal/alerts"
	interfaces "github.com/sheikh-saqib/balance-alerts/internal/interfaces"
	"github.com/sheikh-saqib/balance-alerts/internal/logger"
	"github.com/sheikh-saqib/balance-alerts/internal/metrics"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// Processor wires the lookups, the engine and the publisher together.
type Processor struct {
	customers interfaces.CustomerLookup
	settings  interfaces.SettingsStore
	publisher interfaces.MessagePublisher
	generator *alerts.Generator
	log       zerolog.Logger

	// readBackoff is the first wait after a failed read; it doubles up to maxReadBackoff.
	readBackoff    time.Duration
	maxReadBackoff time.Duration
}

const (
	defaultReadBackoff    = 100 * time.Millisecond
	defaultMaxReadBackoff = 10 * time.Second
)

func NewProcessor(customers interfaces.CustomerLookup, settings interfaces.SettingsStore, publisher interfaces.MessagePublisher, generator *alerts.Generator) *Processor {
	if generator == nil {
		generator = alerts.NewGenerator()
	}
	return &Processor{
		customers: customers,
		settings:  settings,
		publisher: publisher,
		generator: generator,
		log:       logger.WithComponent("pipeline"),

		readBackoff:    defaultReadBackoff,
		maxReadBackoff: defaultMaxReadBackoff,
	}
}

// HandleEntry generates and publishes the alerts of one entry for every
// customer linked to its account. A customer whose settings cannot be loaded
// or evaluated, or a failed publish, does not stop the remaining customers and
// messages; the first error is returned together with the number of messages
// that were published.
func (p *Processor) HandleEntry(ctx context.Context, entry models.LedgerEntry) (int, error) {
	start := time.Now()
	defer func() {
		metrics.EntryProcessingDuration.Observe(time.Since(start).Seconds())
	}()

	customerIDs, err := p.customers.CustomerIDs(ctx, entry.AccountID)
	if err != nil {
		metrics.ProcessingErrorsTotal.WithLabelValues("lookup").Inc()
		return 0, fmt.Errorf("lookup customers of account %s: %w", entry.AccountID, err)
	}

	var (
		published int
		firstErr  error
	)
	for _, customerID := range customerIDs {
		profile, err := p.settings.AlertSettings(ctx, customerID)
		if err != nil {
			metrics.ProcessingErrorsTotal.WithLabelValues("settings").Inc()
			if firstErr == nil {
				firstErr = fmt.Errorf("load alert settings of customer %s: %w", customerID, err)
			}
			continue
		}

		addressed, err := p.generator.GenerateAlerts(entry, profile)
		if err != nil {
			metrics.ProcessingErrorsTotal.WithLabelValues("generate").Inc()
			if firstErr == nil {
				firstErr = fmt.Errorf("generate alerts for customer %s: %w", customerID, err)
			}
			continue
		}

		for _, msg := range addressed {
			metrics.AlertsGeneratedTotal.WithLabelValues(string(msg.Message.MessageType)).Inc()
			if err := p.publisher.Publish(ctx, customerID, msg); err != nil {
				metrics.MessagesPublishedTotal.WithLabelValues(string(msg.Address.Channel), "failed").Inc()
				metrics.ProcessingErrorsTotal.WithLabelValues("publish").Inc()
				if firstErr == nil {
					firstErr = fmt.Errorf("publish %s to %s: %w", msg.Message.MessageType, msg.Address.Channel, err)
				}
				continue
			}
			metrics.MessagesPublishedTotal.WithLabelValues(string(msg.Address.Channel), "success").Inc()
			published++
		}
	}

	return published, firstErr
}

// Run consumes entries until ctx is cancelled or the source returns io.EOF. Errors for a single entry are
// logged and the loop moves on to the next entry. Consecutive read failures back off exponentially.
func (p *Processor) Run(ctx context.Context, source interfaces.EntrySource) error {
	p.log.Info().Msg("starting entry processing loop")

	failures := 0
	for {
		entry, err := source.ReadEntry(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.log.Info().Msg("entry processing loop stopped")
				return nil
			}
			if errors.Is(err, io.EOF) {
				p.log.Info().Msg("entry source exhausted")
				return nil
			}
			failures++
			backoff := p.backoffFor(failures)
			metrics.ProcessingErrorsTotal.WithLabelValues("read").Inc()
			p.log.Error().
				Err(err).
				Int("consecutive_failures", failures).
				Dur("backoff", backoff).
				Msg("failed to read account entry")

			select {
			case <-ctx.Done():
				p.log.Info().Msg("entry processing loop stopped")
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		failures = 0
		metrics.EntriesConsumedTotal.Inc()

		published, err := p.HandleEntry(ctx, *entry)
		if err != nil {
			p.log.Error().
				Err(err).
				Str("entry_id", entry.EntryID).
				Str("account_id", entry.AccountID).
				Int("published", published).
				Msg("failed to process account entry")
			continue
		}

		p.log.Debug().
			Str("entry_id", entry.EntryID).
			Str("account_id", entry.AccountID).
			Int("published", published).
			Msg("processed account entry")
	}
}

// backoffFor returns the wait after the given number of consecutive read failures.
func (p *Processor) backoffFor(failures int) time.Duration {
	backoff := p.readBackoff
	for i := 1; i < failures && backoff < p.maxReadBackoff; i++ {
		backoff *= 2
	}
	return min(backoff, p.maxReadBackoff)
}
