package reasoner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/classifier"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/hierarchy"
	"github.com/dd0wney/cluso-reasoner/pkg/logging"
	"github.com/dd0wney/cluso-reasoner/pkg/metrics"
	"github.com/dd0wney/cluso-reasoner/pkg/normalizer"
	"github.com/dd0wney/cluso-reasoner/pkg/ontology"
	"github.com/dd0wney/cluso-reasoner/pkg/saturation"
	"github.com/dd0wney/cluso-reasoner/pkg/validation"
)

type nopMonitor struct{}

func (nopMonitor) Progress(string, int) {}
func (nopMonitor) Cancelled() bool      { return false }

// run carries the per-run state of one Classify call.
type run struct {
	r       *Reasoner
	id      string
	logger  logging.Logger
	monitor Monitor
	stats   Stats
}

// Classify runs the pipeline on in and keeps the result. The previous result is
// dropped first, so the reasoner is unclassified while the run is in progress and
// after it fails. Inconsistency is part of the result, not an error.
func (r *Reasoner) Classify(ctx context.Context, in Input) error {
	r.run.Lock()
	defer r.run.Unlock()
	r.set(StateUnclassified, nil)

	if err := validateInput(in); err != nil {
		return err
	}
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	ru := &run{
		r:       r,
		id:      uuid.NewString(),
		monitor: r.opts.Monitor,
	}
	if ru.monitor == nil {
		ru.monitor = nopMonitor{}
	}
	ru.logger = r.logger.With(logging.RunID(ru.id))
	if reg := r.opts.Metrics; reg != nil {
		defer reg.StartRun()()
	}

	started := time.Now()
	ru.logger.Info("classification started", logging.Count(len(in.Axioms)))
	res, err := ru.execute(ctx, in)
	elapsed := time.Since(started)

	status := metrics.StatusSuccess
	switch {
	case errors.Is(err, ErrInterrupted):
		status = metrics.StatusInterrupted
	case err != nil:
		status = metrics.StatusError
	case res.Cached:
		status = metrics.StatusCached
	}
	if reg := r.opts.Metrics; reg != nil {
		reg.RecordRun(status, elapsed)
	}

	if err != nil {
		ru.logger.Warn("classification failed",
			logging.String("status", status), logging.Latency(elapsed), logging.Error(err))
		return err
	}
	ru.logger.Info("classification finished",
		logging.String("status", status),
		logging.Bool("consistent", res.Consistent),
		logging.Int("class_vertices", res.Classes.Len()),
		logging.Int("role_vertices", res.Roles.Len()),
		logging.Latency(elapsed),
	)
	r.set(StateReady, res)
	return nil
}

func validateInput(in Input) error {
	err := validation.Struct(in)
	if err == nil {
		return nil
	}
	if in.ExpectedClasses < 0 || in.ExpectedRoles < 0 {
		err = fmt.Errorf("%w: %w", entity.ErrInvalidCount, err)
	}
	return entity.NewError("classify").Entity("input").Cause(err).Err()
}

func (ru *run) execute(ctx context.Context, in Input) (*Result, error) {
	if err := ru.checkpoint(ctx, PhaseNormalize, 0); err != nil {
		return nil, err
	}

	cache := ru.r.opts.Cache
	key := Fingerprint(in.Manager, in.Axioms)
	if cache != nil {
		res, ok := cache.Get(key)
		ru.recordCacheLookup(ok, cache.Len())
		if ok {
			hit := *res
			hit.RunID = ru.id
			hit.Cached = true
			ru.monitor.Progress(PhaseReduce, 100)
			return &hit, nil
		}
	}

	started := time.Now()
	m := in.Manager
	m.Grow(in.ExpectedClasses + in.ExpectedRoles)
	ru.stats.Axioms = len(in.Axioms)

	var set *axiom.NormalSet
	err := ru.phase(PhaseNormalize, func() error {
		var err error
		var ns normalizer.Stats
		set, ns, err = normalizer.New(m, normalizer.WithLogger(ru.logger)).Normalize(ctx, in.Axioms)
		ru.stats.NormalizedAxioms = ns.Normalized
		ru.stats.AuxClasses = ns.AuxClasses
		ru.stats.AuxRoles = ns.AuxRoles
		return err
	})
	if err != nil {
		return nil, interrupted(ctx, err)
	}

	err = ru.phase(PhaseSaturate, func() error {
		var err error
		var ss saturation.Stats
		set, ss, err = saturation.New(m, ru.logger).Saturate(ctx, set)
		ru.stats.SaturationRounds = ss.Rounds
		return err
	})
	if err != nil {
		return nil, interrupted(ctx, err)
	}

	var idx *ontology.Index
	err = ru.phase(PhaseIndex, func() error {
		var err error
		idx, err = ontology.Build(m, set)
		return err
	})
	if err != nil {
		return nil, err
	}
	sum := idx.Summary()
	ru.logger.Debug("index built",
		logging.Int("axioms", sum.Axioms),
		logging.Int("conjunctions", sum.Conjunctions),
		logging.Int("nominals", sum.Nominals),
		logging.Int("functional_roles", sum.Functional),
		logging.Int("inverse_functional_roles", sum.InverseFunctional),
		logging.Int("transitive_roles", sum.Transitive),
		logging.Int("reflexive_roles", sum.Reflexive),
	)
	if err := ru.checkpoint(ctx, PhaseIndex, 100); err != nil {
		return nil, err
	}

	var st *classifier.Status
	err = ru.phase(PhaseClassify, func() error {
		var err error
		st, err = classifier.Run(ctx, m, idx, classifier.Options{
			Mode:               ru.r.opts.Mode,
			CheckpointInterval: ru.r.opts.CheckpointInterval,
			ExpectedClasses:    in.ExpectedClasses,
			Checkpoint:         ru.engineCheckpoint,
			Logger:             ru.logger,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	c := st.Counts()
	ru.stats.Subsumptions = c.Subsumptions
	ru.stats.Edges = c.Edges
	ru.stats.Nodes = c.Nodes
	ru.stats.Processed = c.Processed

	var res *Result
	err = ru.phase(PhaseReduce, func() error {
		var err error
		res, err = ru.reduce(m, idx, st)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := ru.checkpoint(ctx, PhaseReduce, 100); err != nil {
		return nil, err
	}
	res.Stats.Duration = time.Since(started)

	if reg := ru.r.opts.Metrics; reg != nil {
		reg.RecordResult(metrics.RunStats{
			NormalizedAxioms: ru.stats.NormalizedAxioms,
			Subsumptions:     ru.stats.Subsumptions,
			Edges:            ru.stats.Edges,
			SyntheticNodes:   ru.stats.Nodes,
			ClassVertices:    res.Classes.Len(),
			RoleVertices:     res.Roles.Len(),
			Unsatisfiable:    len(res.Classes.Unsatisfiable()),
		})
		es := m.Stats()
		reg.RecordEntities(metrics.EntityCounts{
			Classes:     es.Classes,
			AuxClasses:  es.AuxClasses,
			Roles:       es.Roles,
			AuxRoles:    es.AuxRoles,
			Individuals: es.Individuals,
		})
	}
	cache.Add(key, res)
	return res, nil
}

// reduce builds the hierarchies and the individual maps from a finished status. The
// reserved roles only anchor the role reduction and are hidden from the result.
// Individuals no indexed axiom mentions get the top class as their only type.
func (ru *run) reduce(m *entity.Manager, idx *ontology.Index, st *classifier.Status) (*Result, error) {
	classes := hierarchy.Reduce(m.OriginalClasses(), entity.Thing, entity.Nothing, st.Subsumers)
	roles, err := hierarchy.Reduce(m.OriginalRoles(), entity.TopRole, entity.BottomRole, idx.SuperRoles).
		Hide(entity.TopRole, entity.BottomRole)
	if err != nil {
		return nil, err
	}

	individuals := m.Individuals()
	types := make(map[entity.ID][]entity.ID, len(individuals))
	for _, a := range individuals {
		types[a] = classes.MostSpecific([]entity.ID{entity.Thing})
	}

	nominals := idx.NominalClasses()
	same := make(map[entity.ID][]entity.ID)
	for i, c := range nominals {
		a, _ := idx.Individual(c)
		types[a] = classes.MostSpecific(st.Subsumers(c))
		for _, d := range nominals[i+1:] {
			if !st.IsSubsumedBy(c, d) && !st.IsSubsumedBy(d, c) {
				continue
			}
			b, _ := idx.Individual(d)
			same[a] = append(same[a], b)
			same[b] = append(same[b], a)
		}
	}
	for a := range same {
		slices.Sort(same[a])
	}

	return &Result{
		RunID:           ru.id,
		Classes:         classes,
		Roles:           roles,
		DirectTypes:     types,
		SameIndividuals: same,
		Consistent:      !st.IsInconsistent(),
		Stats:           ru.stats,
	}, nil
}

// phase times fn and records it under name.
func (ru *run) phase(name string, fn func() error) error {
	timer := logging.StartTimer(ru.logger, "phase", logging.Phase(name))
	err := fn()
	var elapsed time.Duration
	if err != nil {
		elapsed = timer.EndError(err)
	} else {
		elapsed = timer.End()
	}
	if reg := ru.r.opts.Metrics; reg != nil {
		reg.RecordPhase(name, elapsed)
	}
	return err
}

// checkpoint reports progress and honours cancellation between phases.
func (ru *run) checkpoint(ctx context.Context, phase string, percent int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	ru.monitor.Progress(phase, percent)
	if ru.monitor.Cancelled() {
		return fmt.Errorf("%w: cancelled by monitor during %s", ErrInterrupted, phase)
	}
	return nil
}

func (ru *run) engineCheckpoint(p classifier.Progress) bool {
	ru.monitor.Progress(PhaseClassify, p.Percent())
	return !ru.monitor.Cancelled()
}

func (ru *run) recordCacheLookup(hit bool, entries int) {
	if reg := ru.r.opts.Metrics; reg != nil {
		reg.RecordCacheLookup(hit, entries)
	}
}

// interrupted marks errors caused by a done context as interruptions.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil && !errors.Is(err, ErrInterrupted) {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return err
}
