package reasoner

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
	"github.com/dd0wney/cluso-reasoner/pkg/parallel"
)

// ClassifyBatch classifies independent inputs on a pool of workers, each with its own
// reasoner configured by opts. Inputs must not share a manager. Results are returned
// in input order; a failed input leaves a nil entry and contributes its error, tagged
// with its index, to the joined error.
func ClassifyBatch(ctx context.Context, inputs []Input, workers int, opts Options) ([]*Result, error) {
	seen := make(map[*entity.Manager]int, len(inputs))
	for i, in := range inputs {
		if in.Manager == nil {
			continue
		}
		if j, ok := seen[in.Manager]; ok {
			return nil, entity.NewError("classify-batch").Entity("input").
				Context(fmt.Sprintf("inputs %d and %d", j, i)).
				Cause(errors.New("inputs share a manager")).Err()
		}
		seen[in.Manager] = i
	}

	pool, err := parallel.NewWorkerPool(workers, opts.Logger)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	results := make([]*Result, len(inputs))
	errs := pool.Each(ctx, len(inputs), func(ctx context.Context, i int) error {
		r := New(opts)
		if err := r.Classify(ctx, inputs[i]); err != nil {
			return err
		}
		res, err := r.Result()
		results[i] = res
		return err
	})

	var failed []error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Errorf("input %d: %w", i, err))
		}
	}
	return results, errors.Join(failed...)
}
