package dpipes

// Option configures pipeline construction. Argument options follow the
// broadcast-or-aligned model: WithArgs applies one map to every stage,
// WithStageArgs supplies one map per stage in function order.
type Option func(*options)

type options struct {
	name         string
	broadcast    Args
	perStage     []Args
	hasBroadcast bool
	hasPerStage  bool
}

// WithName sets the pipeline name, used by logging and tracing middleware.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithArgs binds one argument map to every stage. Each stage receives an
// independent shallow copy.
func WithArgs(args Args) Option {
	return func(o *options) {
		o.broadcast = args
		o.hasBroadcast = true
	}
}

// WithStageArgs binds one argument map per stage, positionally aligned with
// the function list. The count must equal the function count; nil entries
// mean no arguments for that stage.
func WithStageArgs(stageArgs ...Args) Option {
	return func(o *options) {
		o.perStage = stageArgs
		o.hasPerStage = true
	}
}

func applyOptions(opts []Option) *options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &o
}
