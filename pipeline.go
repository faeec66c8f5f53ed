package dpipes

import (
	"context"
	"fmt"
)

// Func is a pipe function: it takes the working object as its sole positional
// input, reads any bound keyword arguments from args, and returns the
// transformed object. The context is passed through from Run untouched.
type Func[T any] func(ctx context.Context, v T, args Args) (T, error)

type stage[T any] struct {
	fn   Func[T]
	args Args
}

// Pipeline is an immutable, reusable composition of pipe functions.
// Calling Run threads one object through every stage in list order, feeding
// each stage's return value to the next stage as its positional input.
//
// A Pipeline holds only configuration and no mutable state, so a single
// instance may be invoked concurrently on different inputs, provided the
// pipe functions themselves are reentrant.
type Pipeline[T any] struct {
	name   string
	stages []stage[T]
}

// New composes funcs into a Pipeline. The function list order is the
// execution order. Argument options are resolved and validated here, before
// anything executes: a per-stage arg count that does not match the function
// count fails construction.
func New[T any](funcs []Func[T], opts ...Option) (*Pipeline[T], error) {
	if len(funcs) == 0 {
		return nil, fmt.Errorf("dpipes: at least one func is required")
	}

	o := applyOptions(opts)
	stageArgs, err := resolveStageArgs(o, len(funcs))
	if err != nil {
		return nil, err
	}

	stages := make([]stage[T], len(funcs))
	for i, fn := range funcs {
		if fn == nil {
			return nil, fmt.Errorf("dpipes: func at index %d is nil", i)
		}
		stages[i] = stage[T]{fn: fn, args: stageArgs[i]}
	}

	return &Pipeline[T]{name: o.name, stages: stages}, nil
}

// Name returns the pipeline name, or "" if none was set.
func (p *Pipeline[T]) Name() string { return p.name }

// Len returns the number of stages.
func (p *Pipeline[T]) Len() int { return len(p.stages) }

// Run applies every stage to v in order and returns the final value.
// Execution is synchronous and strictly ordered. If a stage fails, no later
// stage runs and the stage's error is returned unwrapped, with the zero
// value of T.
func (p *Pipeline[T]) Run(ctx context.Context, v T) (T, error) {
	for _, s := range p.stages {
		var err error
		v, err = s.fn(ctx, v, s.args)
		if err != nil {
			var zero T
			return zero, err
		}
	}
	return v, nil
}

// Stage adapts the pipeline to the Func signature so it can be used as a
// single stage inside another pipeline. Args bound to the nested stage are
// ignored; bind arguments when constructing the nested pipeline instead.
func (p *Pipeline[T]) Stage(ctx context.Context, v T, _ Args) (T, error) {
	return p.Run(ctx, v)
}
