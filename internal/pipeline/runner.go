package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	basisv1 "basislab/api/v1"
	"basislab/internal/basis"
	"basislab/internal/logging"
	"basislab/internal/transform"
	"basislab/sink"
	"basislab/source"
)

// Stats counts what a run produced.
type Stats struct {
	Cases      int64
	Degenerate int64
	Failed     int64
}

type Runner struct {
	source  source.Adapter
	client  transform.Client
	timeout time.Duration
	sinks   []sink.Adapter

	cases, degenerate, failed atomic.Int64

	ownsClient bool
	closeOnce  sync.Once
}

func NewRunner(client transform.Client) *Runner { return &Runner{client: client} }

func (r *Runner) AddSink(s sink.Adapter)     { r.sinks = append(r.sinks, s) }
func (r *Runner) SetSource(s source.Adapter) { r.source = s }

// SetTimeout bounds each remote evaluation; zero means no bound.
func (r *Runner) SetTimeout(d time.Duration) { r.timeout = d }

func (r *Runner) Stats() Stats {
	return Stats{Cases: r.cases.Load(), Degenerate: r.degenerate.Load(), Failed: r.failed.Load()}
}

/*──────── case routing ───────*/

// evaluate never fails the run: engine and transport errors are carried
// on the outcome.
func (r *Runner) evaluate(ctx context.Context, c basisv1.Case) *basisv1.Outcome {
	r.cases.Add(1)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out := &basisv1.Outcome{Case: c}
	res, err := r.client.Transform(ctx, c.Input)
	switch {
	case err == nil:
		out.Result = &res
	case errors.Is(err, basis.ErrDegenerateBasis):
		r.degenerate.Add(1)
		out.Result = &res
		out.Error = err.Error()
	default:
		r.failed.Add(1)
		out.Error = err.Error()
		logging.L().Warn("pipeline: evaluation failed", zap.String("case", c.ID), zap.Error(err))
	}
	return out
}

func (r *Runner) pushCase(ctx context.Context, c basisv1.Case) error {
	o := r.evaluate(ctx, c)
	for _, s := range r.sinks {
		if err := s.Push(o); err != nil {
			return err
		}
	}
	return nil
}

// Run drives the source to completion (or until ctx is done).
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return errors.New("runner: no source configured")
	}
	if r.client == nil {
		return errors.New("runner: no transform client configured")
	}
	err := r.source.Run(ctx, func(c basisv1.Case) error { return r.pushCase(ctx, c) })
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		err = nil
	}
	st := r.Stats()
	logging.L().Info("pipeline: source finished",
		zap.Int64("cases", st.Cases),
		zap.Int64("degenerate", st.Degenerate),
		zap.Int64("failed", st.Failed),
		zap.Error(err))
	return err
}

// Start runs the pipeline in the background.
func (r *Runner) Start(ctx context.Context) error {
	if r.source == nil {
		return errors.New("runner: no source configured")
	}
	go func() { _ = r.Run(ctx) }()
	return nil
}

// Close releases the source and every sink. The client is closed only
// when the runner dialled it itself.
func (r *Runner) Close() error {
	var errs []error
	r.closeOnce.Do(func() {
		if r.source != nil {
			errs = append(errs, r.source.Close())
		}
		for _, s := range r.sinks {
			errs = append(errs, s.Close())
		}
		if r.ownsClient && r.client != nil {
			errs = append(errs, r.client.Close())
		}
	})
	return errors.Join(errs...)
}
