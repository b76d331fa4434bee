// Package reasoner runs the full classification pipeline over an axiom set and keeps
// the resulting hierarchies. A Reasoner holds at most one result and refuses queries
// until a run has completed.
package reasoner

import (
	"errors"
	"sync"
	"time"

	"github.com/dd0wney/cluso-reasoner/pkg/axiom"
	"github.com/dd0wney/cluso-reasoner/pkg/classifier"
	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/hierarchy"
	"github.com/dd0wney/cluso-reasoner/pkg/logging"
	"github.com/dd0wney/cluso-reasoner/pkg/metrics"
)

var (
	// ErrNotClassified is returned by queries made before a successful run.
	ErrNotClassified = errors.New("ontology not classified")
	// ErrInterrupted is returned when a run is cancelled through its context or
	// monitor.
	ErrInterrupted = classifier.ErrInterrupted
)

// State tells whether a reasoner holds a result.
type State int

const (
	// StateUnclassified is the state before the first run and after a failed one.
	StateUnclassified State = iota
	// StateReady is the state after a successful run.
	StateReady
)

// String returns the state name.
func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "unclassified"
}

// Pipeline phases, as reported to monitors and recorded in metrics.
const (
	PhaseNormalize = "normalize"
	PhaseSaturate  = "saturate"
	PhaseIndex     = "index"
	PhaseClassify  = "classify"
	PhaseReduce    = "reduce"
)

// Monitor observes a run. Progress is reported before normalization, after the index
// is built, at every engine checkpoint and after reduction; Cancelled is polled at the
// same points and stops the run when it returns true. Calls made during the fixpoint
// happen with the engine lock held and must not block.
type Monitor interface {
	Progress(phase string, percent int)
	Cancelled() bool
}

// Input is one classification problem. The counts pre-size internal tables.
type Input struct {
	Manager         *entity.Manager `validate:"required"`
	Axioms          []axiom.Axiom
	ExpectedClasses int `validate:"gte=0"`
	ExpectedRoles   int `validate:"gte=0"`
}

// Options configures a Reasoner. The zero value runs the concurrent engine without
// logging, metrics or caching.
type Options struct {
	Mode               classifier.Mode
	CheckpointInterval int
	// Timeout bounds a single run; zero means no limit.
	Timeout time.Duration
	Logger  logging.Logger
	Metrics *metrics.Registry
	Monitor Monitor
	Cache   *Cache
}

// Stats summarizes one run.
type Stats struct {
	Axioms           int
	NormalizedAxioms int
	AuxClasses       int
	AuxRoles         int
	SaturationRounds int
	Subsumptions     int
	Edges            int
	Nodes            int
	Processed        int
	Duration         time.Duration
}

// Result is everything kept from a completed run. Results are immutable.
type Result struct {
	RunID string
	// Classes is the reduced hierarchy of the original classes under ⊤ and ⊥.
	Classes *hierarchy.Graph
	// Roles is the reduced hierarchy of the original roles, with the universal and
	// empty roles as its top and bottom.
	Roles *hierarchy.Graph
	// DirectTypes maps each asserted individual to its most specific classes.
	DirectTypes map[entity.ID][]entity.ID
	// SameIndividuals maps each individual to the others found equal to it.
	SameIndividuals map[entity.ID][]entity.ID
	Consistent      bool
	Cached          bool
	Stats           Stats
}

// Reasoner classifies ontologies. It is safe for concurrent use; runs are
// serialized.
type Reasoner struct {
	opts   Options
	logger logging.Logger

	run    sync.Mutex
	mu     sync.RWMutex
	state  State
	result *Result
}

// New creates a reasoner.
func New(opts Options) *Reasoner {
	return &Reasoner{
		opts:   opts,
		logger: logging.OrNop(opts.Logger).With(logging.Component("reasoner")),
	}
}

// State returns the current state.
func (r *Reasoner) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Result returns the result of the last successful run.
func (r *Reasoner) Result() (*Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != StateReady {
		return nil, ErrNotClassified
	}
	return r.result, nil
}

// ClassHierarchy returns the class hierarchy.
func (r *Reasoner) ClassHierarchy() (*hierarchy.Graph, error) {
	res, err := r.Result()
	if err != nil {
		return nil, err
	}
	return res.Classes, nil
}

// RoleHierarchy returns the role hierarchy. The universal and empty roles are not
// part of it; Top and Bottom report hierarchy.NoVertex unless some role is
// equivalent to one of them.
func (r *Reasoner) RoleHierarchy() (*hierarchy.Graph, error) {
	res, err := r.Result()
	if err != nil {
		return nil, err
	}
	return res.Roles, nil
}

// DirectTypes returns the most specific classes of every individual of the manager.
func (r *Reasoner) DirectTypes() (map[entity.ID][]entity.ID, error) {
	res, err := r.Result()
	if err != nil {
		return nil, err
	}
	return res.DirectTypes, nil
}

// SameIndividuals returns, for every individual equal to another, the others.
func (r *Reasoner) SameIndividuals() (map[entity.ID][]entity.ID, error) {
	res, err := r.Result()
	if err != nil {
		return nil, err
	}
	return res.SameIndividuals, nil
}

// IsConsistent reports whether the last run found the ontology consistent.
func (r *Reasoner) IsConsistent() (bool, error) {
	res, err := r.Result()
	if err != nil {
		return false, err
	}
	return res.Consistent, nil
}

// IsSubsumedBy reports whether sub ⊑ sup holds in the class hierarchy.
func (r *Reasoner) IsSubsumedBy(sub, sup entity.ID) (bool, error) {
	res, err := r.Result()
	if err != nil {
		return false, err
	}
	return res.Classes.IsDescendant(sub, sup), nil
}

func (r *Reasoner) set(state State, res *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
	r.result = res
}
