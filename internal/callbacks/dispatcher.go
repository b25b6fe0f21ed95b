package callbacks

import (
	"context"
	"fmt"
	"time"

	"github.com/aivahomes/realty-ai-platform/internal/conversation"
	"github.com/aivahomes/realty-ai-platform/internal/observability/metrics"
	"github.com/aivahomes/realty-ai-platform/internal/voice"
	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

const (
	defaultBatchSize = 10
	// transcriptWindow bounds how much chat history is handed to the voice
	// agent when it calls the visitor back.
	transcriptWindow = 6
)

// CallPlacer places outbound phone calls. Satisfied by *voice.Client.
type CallPlacer interface {
	CreatePhoneCall(ctx context.Context, req voice.PhoneCallRequest) (*voice.Call, error)
}

// HistoryReader fetches recent chat turns for a session. Satisfied by
// *conversation.Store.
type HistoryReader interface {
	Read(ctx context.Context, sessionID string, limit int) ([]conversation.Message, error)
}

// DispatcherConfig carries the voice agent identity used for every
// dispatched call.
type DispatcherConfig struct {
	AgentID        string
	FromNumber     string
	TransferNumber string
	BatchSize      int
}

// Dispatcher sweeps due callbacks and places each one as an outbound voice
// call. Records move pending -> processing -> completed or failed; a failed
// callback is final and the visitor has to ask again.
type Dispatcher struct {
	store   Store
	history HistoryReader
	caller  CallPlacer
	cfg     DispatcherConfig
	log     *logging.Logger
	metrics *metrics.DispatchMetrics
}

// NewDispatcher creates a Dispatcher. history, caller, and m may be nil;
// a nil caller fails every due callback with a configuration note rather
// than leaving rows stuck in pending.
func NewDispatcher(store Store, history HistoryReader, caller CallPlacer, cfg DispatcherConfig, logger *logging.Logger, m *metrics.DispatchMetrics) *Dispatcher {
	if store == nil {
		panic("callbacks: store cannot be nil")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		store:   store,
		history: history,
		caller:  caller,
		cfg:     cfg,
		log:     logger,
		metrics: m,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled. It fires once
// immediately so due callbacks are not held for a full interval at startup.
func (d *Dispatcher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	d.log.Info("callback dispatcher started", "interval", interval)

	if _, err := d.Sweep(ctx); err != nil {
		d.log.Error("callback sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.log.Info("callback dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := d.Sweep(ctx); err != nil {
				d.log.Error("callback sweep failed", "error", err)
			}
		}
	}
}

// Sweep dispatches one batch of due callbacks and returns how many were
// processed. Per-callback failures are recorded on the row and do not stop
// the rest of the batch.
func (d *Dispatcher) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		d.metrics.ObserveSweepDuration(time.Since(start).Seconds())
	}()

	due, err := d.store.ListDue(ctx, time.Now().UTC(), d.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("callbacks: sweep: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	processed := 0
	for _, cb := range due {
		if err := d.dispatchOne(ctx, cb); err != nil {
			d.log.Error("callback dispatch failed",
				"callback_id", cb.ID.String(),
				"error", err,
			)
		}
		processed++
	}
	d.log.Info("callback sweep finished", "due", len(due), "processed", processed)
	return processed, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, cb *Callback) error {
	claimed, err := d.store.ClaimProcessing(ctx, cb.ID)
	if err != nil {
		return err
	}
	if !claimed {
		// Another sweep got here first.
		d.metrics.ObserveDispatch("skipped")
		return nil
	}

	if d.caller == nil {
		d.metrics.ObserveDispatch("failed")
		if err := d.store.Fail(ctx, cb.ID, "voice provider not configured"); err != nil {
			return err
		}
		return fmt.Errorf("callbacks: voice provider not configured")
	}

	call, err := d.caller.CreatePhoneCall(ctx, voice.PhoneCallRequest{
		AgentID:    d.cfg.AgentID,
		FromNumber: d.cfg.FromNumber,
		ToNumber:   cb.Phone,
		Metadata: map[string]string{
			"scheduled_callback": "true",
			"callback_id":        cb.ID.String(),
		},
		DynamicVariables: map[string]string{
			"conversation_context": d.transcript(ctx, cb),
			"is_callback":          "true",
			"transfer_number":      d.cfg.TransferNumber,
		},
	})
	if err != nil {
		d.metrics.ObserveDispatch("failed")
		if failErr := d.store.Fail(ctx, cb.ID, err.Error()); failErr != nil {
			return failErr
		}
		return err
	}

	if err := d.store.Complete(ctx, cb.ID, call.CallID); err != nil {
		return err
	}
	d.metrics.ObserveDispatch("completed")
	d.log.Info("callback dispatched",
		"callback_id", cb.ID.String(),
		"provider_call_id", call.CallID,
	)
	return nil
}

// transcript renders the recent chat history for the voice agent. Any
// history problem degrades to the placeholder; a missing transcript must
// never block the call.
func (d *Dispatcher) transcript(ctx context.Context, cb *Callback) string {
	if d.history == nil || cb.SessionID == "" {
		return conversation.TranscriptPlaceholder
	}
	messages, err := d.history.Read(ctx, cb.SessionID, transcriptWindow)
	if err != nil {
		d.log.Warn("failed to load callback transcript",
			"callback_id", cb.ID.String(),
			"error", err,
		)
		return conversation.TranscriptPlaceholder
	}
	return conversation.Transcript(messages)
}
