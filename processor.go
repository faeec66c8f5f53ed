package dpipes

// NewColumnProcessor composes column-scoped pipe functions over a tabular
// object. The column spec is resolved into one selection per stage and
// injected into that stage's args under ColsKey, then construction delegates
// to New. The processor never interprets the table itself; functions read
// their selection via Cols and apply it however the table type requires.
//
// When a caller-supplied arg map already defines ColsKey, the resolved
// column selection wins.
func NewColumnProcessor[T any](funcs []Func[T], cols ColumnSpec, opts ...Option) (*Pipeline[T], error) {
	o := applyOptions(opts)

	stageArgs, err := resolveStageArgs(o, len(funcs))
	if err != nil {
		return nil, err
	}
	selections, err := cols.resolve(len(funcs))
	if err != nil {
		return nil, err
	}

	merged := make([]Args, len(funcs))
	for i := range funcs {
		args := stageArgs[i].Clone()
		args[ColsKey] = selections[i]
		merged[i] = args
	}

	return New(funcs, WithName(o.name), WithStageArgs(merged...))
}
