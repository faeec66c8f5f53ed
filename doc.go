// Package dpipes composes ordered lists of transformation functions into
// single reusable pipelines, replacing repeated object-specific method
// chaining with a declarative pipeline object that can be invoked against
// any number of inputs.
//
// A pipe function takes the working object as its positional input plus a
// bag of keyword arguments, and returns the transformed object. A Pipeline
// threads one object through every function left to right:
//
//	addTwo := func(_ context.Context, xs []int, _ dpipes.Args) ([]int, error) {
//	    out := make([]int, len(xs))
//	    for i, x := range xs {
//	        out[i] = x + 2
//	    }
//	    return out, nil
//	}
//	pl, _ := dpipes.New([]dpipes.Func[[]int]{addTwo, multTwo})
//	result, _ := pl.Run(ctx, []int{3, 19, 30, 18}) // [10 42 64 40]
//
// Arguments bind per stage, either broadcast to all stages or positionally
// aligned one map per stage:
//
//	pl, _ := dpipes.New(funcs, dpipes.WithStageArgs(
//	    nil,
//	    dpipes.Args{"punctuation": punct},
//	    dpipes.Args{"stopwords": stopwords},
//	))
//
// A composed pipeline is itself a valid stage via its Stage method, so
// pipelines nest without special-casing.
//
// For tabular objects, NewColumnProcessor additionally binds a column
// selection to each stage under the reserved "cols" argument; stage
// functions read it with Cols and apply it to whatever table type they
// agree on. The engine never interprets the table itself.
//
// Pipelines can also be described declaratively in YAML and built against a
// Registry of named functions; see Definition, FileLoader, and Build.
package dpipes
