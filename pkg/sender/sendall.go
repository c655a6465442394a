package sender

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel deliveries when SendAll is given
// a non-positive limit.
const DefaultConcurrency = 4

// SendResult is the delivery outcome for one message, keyed by its
// batch index.
type SendResult struct {
	Index int
	Err   error
}

// SendReport summarizes one SendAll run. Results holds one entry per
// message in batch order.
type SendReport struct {
	Sent    int
	Failed  int
	Results []SendResult
}

// SendAll delivers a batch with bounded parallelism. A failed delivery
// never stops the rest of the batch; every outcome lands in the
// report. The context cancels in-flight sends only.
func SendAll(ctx context.Context, s Sender, emails []*Email, concurrency int, log *slog.Logger) *SendReport {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]SendResult, len(emails))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, email := range emails {
		g.Go(func() error {
			err := s.Send(ctx, email)
			if err != nil {
				err = fmt.Errorf("%w: %v", ErrSendFailed, err)
				log.ErrorContext(ctx, "delivery failed",
					slog.Int("index", i),
					slog.Any("error", err))
			} else {
				log.InfoContext(ctx, "delivered",
					slog.Int("index", i),
					slog.Int("recipients", len(email.To)))
			}
			results[i] = SendResult{Index: i, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	report := &SendReport{Results: results}
	for _, r := range results {
		if r.Err != nil {
			report.Failed++
		} else {
			report.Sent++
		}
	}
	return report
}
