package dpipes

import "fmt"

// Args holds the keyword arguments bound to a single pipe function invocation.
// Keys are parameter names agreed on between the pipeline author and the
// function author. Functions must treat their Args as read-only.
type Args map[string]any

// Clone returns an independent shallow copy of the args.
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Get retrieves a typed value from args.
// Returns an error if the key is missing or the type doesn't match.
func Get[V any](args Args, key string) (V, error) {
	var zero V
	raw, ok := args[key]
	if !ok {
		return zero, fmt.Errorf("dpipes: arg %q not found", key)
	}
	val, ok := raw.(V)
	if !ok {
		return zero, fmt.Errorf("dpipes: arg %q: expected %T, got %T", key, zero, raw)
	}
	return val, nil
}

// GetOr retrieves a typed value from args, falling back to a default when the
// key is absent or holds a different type.
func GetOr[V any](args Args, key string, fallback V) V {
	val, err := Get[V](args, key)
	if err != nil {
		return fallback
	}
	return val
}

// resolveStageArgs normalizes an argument specification into exactly one Args
// map per stage. A nil spec yields n empty maps. A broadcast map yields n
// independent shallow copies, so a stage mutating its args cannot leak into
// its siblings. An explicit per-stage list must match the function count and
// is used verbatim, with nil entries replaced by empty maps.
func resolveStageArgs(o *options, n int) ([]Args, error) {
	if o.hasBroadcast && o.hasPerStage {
		return nil, fmt.Errorf("dpipes: WithArgs and WithStageArgs are mutually exclusive")
	}

	if o.hasPerStage {
		if len(o.perStage) != n {
			return nil, fmt.Errorf("dpipes: got %d stage arg maps for %d funcs", len(o.perStage), n)
		}
		out := make([]Args, n)
		for i, args := range o.perStage {
			if args == nil {
				args = Args{}
			}
			out[i] = args
		}
		return out, nil
	}

	out := make([]Args, n)
	for i := range out {
		out[i] = o.broadcast.Clone()
	}
	return out, nil
}
