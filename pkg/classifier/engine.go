package classifier

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/logging"
	"github.com/dd0wney/cluso-reasoner/pkg/ontology"
)

// ErrInterrupted is returned when a run is stopped before reaching the fixpoint.
var ErrInterrupted = errors.New("classification interrupted")

// Mode selects how the two queues are drained.
type Mode string

const (
	// ModeConcurrent drains the S and R queues from two workers.
	ModeConcurrent Mode = "concurrent"
	// ModeSequential alternates between the queues on the calling goroutine.
	ModeSequential Mode = "sequential"
)

// DefaultCheckpointInterval is the number of processed entries between checkpoints.
const DefaultCheckpointInterval = 1024

// Progress is reported at every checkpoint.
type Progress struct {
	Processed    int
	Pending      int
	Subsumptions int
	Edges        int
	Nodes        int
}

// Percent estimates completion from processed and pending entries. The estimate only
// ever reaches 100 at the fixpoint.
func (p Progress) Percent() int {
	total := p.Processed + p.Pending
	if total == 0 || p.Pending == 0 {
		return 100
	}
	pct := p.Processed * 100 / total
	if pct > 99 {
		pct = 99
	}
	return pct
}

// Options configures a run.
type Options struct {
	Mode               Mode
	CheckpointInterval int
	// ExpectedClasses pre-sizes the status tables.
	ExpectedClasses int
	// Checkpoint is called periodically with the lock held; returning false interrupts
	// the run.
	Checkpoint func(Progress) bool
	Logger     logging.Logger

	// inspect is called with the lock held at every checkpoint.
	inspect func(*Status)
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeConcurrent
	}
	if o.CheckpointInterval <= 0 {
		o.CheckpointInterval = DefaultCheckpointInterval
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

// Run seeds a status from idx and applies the completion rules until both queues are
// empty. Auxiliary nodes are allocated from m. On error the partial status is dropped.
func Run(ctx context.Context, m *entity.Manager, idx *ontology.Index, opts Options) (*Status, error) {
	opts = opts.withDefaults()
	timer := logging.StartTimer(opts.Logger, "completion fixpoint")

	st := newStatus(m, idx, opts.ExpectedClasses)
	st.mu.Lock()
	if !st.poll(ctx, opts) {
		st.mu.Unlock()
		return nil, st.err
	}
	st.seed()
	st.mu.Unlock()

	var err error
	switch opts.Mode {
	case ModeSequential:
		err = st.drainSequential(ctx, opts)
	case ModeConcurrent:
		err = st.drainConcurrent(ctx, opts)
	default:
		err = fmt.Errorf("classifier: unknown mode %q", opts.Mode)
	}
	if err != nil {
		timer.EndError(err)
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.poll(ctx, opts) {
		return nil, st.err
	}
	c := st.countsLocked()
	timer.End(
		logging.String("mode", string(opts.Mode)),
		logging.Count(c.Processed),
		logging.Int("subsumptions", c.Subsumptions),
		logging.Int("edges", c.Edges),
		logging.Int("nodes", c.Nodes),
	)
	return st, nil
}

// seed initializes every class known to the manager and grounds ⊤ and the nominals.
// Nodes left over from an earlier run on the same manager are seeded on demand.
func (st *Status) seed() {
	st.initNode(entity.Nothing)
	for _, c := range st.manager.Classes() {
		if p, ok := st.manager.AuxPurpose(c); ok && p == entity.PurposeNode {
			continue
		}
		st.initNode(c)
	}
	st.ground(entity.Thing)
	for _, n := range st.index.NominalClasses() {
		st.initNode(n)
		st.ground(n)
	}
}

func (st *Status) fail(err error) {
	if st.err == nil {
		st.err = err
	}
}

// poll runs the checkpoint hooks. It must be called with the lock held.
func (st *Status) poll(ctx context.Context, opts Options) bool {
	if st.err != nil {
		return false
	}
	if opts.inspect != nil {
		opts.inspect(st)
	}
	if err := ctx.Err(); err != nil {
		st.fail(fmt.Errorf("%w: %w", ErrInterrupted, err))
		return false
	}
	if opts.Checkpoint != nil && !opts.Checkpoint(st.progressLocked()) {
		st.fail(ErrInterrupted)
		return false
	}
	return true
}

func (st *Status) progressLocked() Progress {
	c := st.countsLocked()
	return Progress{
		Processed:    c.Processed,
		Pending:      st.pendingS() + st.pendingR(),
		Subsumptions: c.Subsumptions,
		Edges:        c.Edges,
		Nodes:        c.Nodes,
	}
}

func (st *Status) step(ctx context.Context, opts Options) bool {
	st.processed++
	if st.processed%opts.CheckpointInterval != 0 {
		return true
	}
	return st.poll(ctx, opts)
}

func (st *Status) drainSequential(ctx context.Context, opts Options) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	for {
		progressed := false
		if e, ok := st.popS(); ok {
			st.applyS(e)
			progressed = true
			if !st.step(ctx, opts) {
				return st.err
			}
		}
		if e, ok := st.popR(); ok {
			st.applyR(e)
			progressed = true
			if !st.step(ctx, opts) {
				return st.err
			}
		}
		if !progressed {
			st.done = true
			return nil
		}
	}
}

type side int

const (
	sideS side = iota
	sideR
)

// drainConcurrent runs one worker per queue. Rules run with the status lock held, so
// the workers interleave at entry granularity and the fixpoint is reached exactly when
// the lock holder finds both queues empty.
func (st *Status) drainConcurrent(ctx context.Context, opts Options) error {
	g, gctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(gctx, func() {
		st.mu.Lock()
		st.cond.Broadcast()
		st.mu.Unlock()
	})
	defer stop()

	g.Go(func() error { return st.work(gctx, opts, sideS) })
	g.Go(func() error { return st.work(gctx, opts, sideR) })
	return g.Wait()
}

func (st *Status) work(ctx context.Context, opts Options, s side) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	for {
		if st.err != nil {
			return st.err
		}
		if st.done {
			return nil
		}
		if err := ctx.Err(); err != nil {
			st.fail(fmt.Errorf("%w: %w", ErrInterrupted, err))
			st.cond.Broadcast()
			return st.err
		}

		var ok bool
		var other int
		if s == sideS {
			var e sEntry
			if e, ok = st.popS(); ok {
				st.applyS(e)
			}
			other = st.pendingR()
		} else {
			var e rEntry
			if e, ok = st.popR(); ok {
				st.applyR(e)
			}
			other = st.pendingS()
		}

		if !ok {
			if st.pendingS() == 0 && st.pendingR() == 0 {
				st.done = true
				st.cond.Broadcast()
				return nil
			}
			st.cond.Wait()
			continue
		}
		if other > 0 {
			st.cond.Broadcast()
		}
		if !st.step(ctx, opts) {
			st.cond.Broadcast()
			return st.err
		}
	}
}
