package dpipes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func addTwo(_ context.Context, xs []int, _ Args) ([]int, error) {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = x + 2
	}
	return out, nil
}

func multTwo(_ context.Context, xs []int, _ Args) ([]int, error) {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = x * 2
	}
	return out, nil
}

func addN(_ context.Context, xs []int, args Args) ([]int, error) {
	n, err := Get[int](args, "n")
	if err != nil {
		return nil, err
	}
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = x + n
	}
	return out, nil
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_NoFuncs(t *testing.T) {
	_, err := New[[]int](nil)
	if err == nil {
		t.Fatal("expected error for empty func list")
	}
}

func TestNew_NilFunc(t *testing.T) {
	_, err := New([]Func[[]int]{addTwo, nil})
	if err == nil {
		t.Fatal("expected error for nil func")
	}
	if !strings.Contains(err.Error(), "index 1") {
		t.Errorf("expected error naming index 1, got %q", err.Error())
	}
}

func TestRun_SingleFunc(t *testing.T) {
	pl, err := New([]Func[[]int]{addTwo})
	if err != nil {
		t.Fatal(err)
	}
	got, err := pl.Run(context.Background(), []int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{3, 4, 5}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRun_Order(t *testing.T) {
	pl, err := New([]Func[[]int]{addTwo, multTwo})
	if err != nil {
		t.Fatal(err)
	}
	got, err := pl.Run(context.Background(), []int{3, 19, 30, 18})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{10, 42, 64, 40}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRun_OrderIsLoadBearing(t *testing.T) {
	forward, _ := New([]Func[[]int]{addTwo, multTwo})
	reverse, _ := New([]Func[[]int]{multTwo, addTwo})

	in := []int{5}
	a, _ := forward.Run(context.Background(), in)
	b, _ := reverse.Run(context.Background(), in)
	if a[0] != 14 || b[0] != 12 {
		t.Errorf("expected 14 and 12, got %d and %d", a[0], b[0])
	}
}

func TestRun_StageArgs(t *testing.T) {
	pl, err := New(
		[]Func[[]int]{addN, addN, addN},
		WithStageArgs(Args{"n": 1}, Args{"n": 10}, Args{"n": 100}),
	)
	if err != nil {
		t.Fatal(err)
	}
	got, err := pl.Run(context.Background(), []int{0})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 111 {
		t.Errorf("expected 111, got %d", got[0])
	}
}

func TestRun_NilStageArgEntry(t *testing.T) {
	pl, err := New(
		[]Func[[]int]{addTwo, addN},
		WithStageArgs(nil, Args{"n": 5}),
	)
	if err != nil {
		t.Fatal(err)
	}
	got, err := pl.Run(context.Background(), []int{0})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 7 {
		t.Errorf("expected 7, got %d", got[0])
	}
}

func TestBroadcastEquivalence(t *testing.T) {
	broadcast, err := New([]Func[[]int]{addN, addN}, WithArgs(Args{"n": 3}))
	if err != nil {
		t.Fatal(err)
	}
	aligned, err := New([]Func[[]int]{addN, addN}, WithStageArgs(Args{"n": 3}, Args{"n": 3}))
	if err != nil {
		t.Fatal(err)
	}

	in := []int{1, 2}
	a, err := broadcast.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := aligned.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(a, b) {
		t.Errorf("broadcast %v != aligned %v", a, b)
	}
}

func TestStageArgs_LengthMismatch(t *testing.T) {
	var calls atomic.Int64
	counted := func(_ context.Context, xs []int, _ Args) ([]int, error) {
		calls.Add(1)
		return xs, nil
	}

	_, err := New([]Func[[]int]{counted, counted}, WithStageArgs(Args{"x": 1}))
	if err == nil {
		t.Fatal("expected error for 1 arg map with 2 funcs")
	}
	if !strings.Contains(err.Error(), "1") || !strings.Contains(err.Error(), "2") {
		t.Errorf("expected error naming both counts, got %q", err.Error())
	}
	if calls.Load() != 0 {
		t.Errorf("expected no stage to run, got %d calls", calls.Load())
	}
}

func TestArgsOptions_MutuallyExclusive(t *testing.T) {
	_, err := New(
		[]Func[[]int]{addN},
		WithArgs(Args{"n": 1}),
		WithStageArgs(Args{"n": 2}),
	)
	if err == nil {
		t.Fatal("expected error when both arg forms are given")
	}
}

func TestRun_ErrorStopsExecution(t *testing.T) {
	stageErr := errors.New("bad stage")
	var after atomic.Int64

	failing := func(_ context.Context, xs []int, _ Args) ([]int, error) {
		return nil, stageErr
	}
	counted := func(_ context.Context, xs []int, _ Args) ([]int, error) {
		after.Add(1)
		return xs, nil
	}

	pl, err := New([]Func[[]int]{addTwo, failing, counted})
	if err != nil {
		t.Fatal(err)
	}
	got, err := pl.Run(context.Background(), []int{1})
	if !errors.Is(err, stageErr) {
		t.Fatalf("expected stage error propagated verbatim, got %v", err)
	}
	if err.Error() != "bad stage" {
		t.Errorf("expected unwrapped error, got %q", err.Error())
	}
	if got != nil {
		t.Errorf("expected zero value on error, got %v", got)
	}
	if after.Load() != 0 {
		t.Errorf("expected no stage after the failing one, got %d calls", after.Load())
	}
}

func TestNested_Associativity(t *testing.T) {
	in := []int{3, 19, 30, 18}

	flat, _ := New([]Func[[]int]{addTwo, multTwo, addTwo})

	front, _ := New([]Func[[]int]{addTwo, multTwo})
	nestedFront, _ := New([]Func[[]int]{front.Stage, addTwo})

	back, _ := New([]Func[[]int]{multTwo, addTwo})
	nestedBack, _ := New([]Func[[]int]{addTwo, back.Stage})

	want, err := flat.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	a, err := nestedFront.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := nestedBack.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if !intSliceEqual(a, want) || !intSliceEqual(b, want) {
		t.Errorf("nested runs diverge: flat %v, front-nested %v, back-nested %v", want, a, b)
	}
}

func TestNested_StageIgnoresArgs(t *testing.T) {
	inner, _ := New([]Func[[]int]{addTwo})
	outer, err := New([]Func[[]int]{inner.Stage}, WithArgs(Args{"ignored": true}))
	if err != nil {
		t.Fatal(err)
	}
	got, err := outer.Run(context.Background(), []int{1})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 3 {
		t.Errorf("expected 3, got %d", got[0])
	}
}

func TestRun_Repeatability(t *testing.T) {
	pl, _ := New([]Func[[]int]{addTwo, multTwo})

	x := []int{1}
	y := []int{2}

	x1, _ := pl.Run(context.Background(), x)
	y1, _ := pl.Run(context.Background(), y)
	y2, _ := pl.Run(context.Background(), y)
	x2, _ := pl.Run(context.Background(), x)

	if !intSliceEqual(x1, x2) || !intSliceEqual(y1, y2) {
		t.Errorf("results depend on invocation order: %v/%v and %v/%v", x1, x2, y1, y2)
	}
}

func TestRun_Concurrent(t *testing.T) {
	pl, _ := New([]Func[[]int]{addN, multTwo}, WithArgs(Args{"n": 2}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(seed int) {
			defer wg.Done()
			got, err := pl.Run(context.Background(), []int{seed})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got[0] != (seed+2)*2 {
				t.Errorf("seed %d: expected %d, got %d", seed, (seed+2)*2, got[0])
			}
		}(i)
	}
	wg.Wait()
}

func TestBroadcast_IndependentCopies(t *testing.T) {
	mutator := func(_ context.Context, xs []int, args Args) ([]int, error) {
		args["n"] = 999
		return xs, nil
	}
	reader := func(_ context.Context, xs []int, args Args) ([]int, error) {
		n, err := Get[int](args, "n")
		if err != nil {
			return nil, err
		}
		return append(xs, n), nil
	}

	pl, err := New([]Func[[]int]{mutator, reader}, WithArgs(Args{"n": 7}))
	if err != nil {
		t.Fatal(err)
	}
	got, err := pl.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("expected broadcast copy to isolate stages, got %v", got)
	}
}

func TestName_And_Len(t *testing.T) {
	pl, _ := New([]Func[[]int]{addTwo, multTwo}, WithName("doubler"))
	if pl.Name() != "doubler" {
		t.Errorf("expected 'doubler', got %q", pl.Name())
	}
	if pl.Len() != 2 {
		t.Errorf("expected 2 stages, got %d", pl.Len())
	}
}

func TestRun_StructObjects(t *testing.T) {
	type product struct {
		price       float64
		description string
		units       int
	}

	adjustPrice := func(_ context.Context, p product, args Args) (product, error) {
		p.price *= GetOr(args, "factor", 1.0)
		return p, nil
	}
	cleanDescription := func(_ context.Context, p product, _ Args) (product, error) {
		p.description = strings.ToUpper(p.description[:1]) + p.description[1:]
		return p, nil
	}
	addUnits := func(_ context.Context, p product, args Args) (product, error) {
		p.units += GetOr(args, "units", 0)
		return p, nil
	}

	pl, err := New(
		[]Func[product]{adjustPrice, cleanDescription, addUnits},
		WithStageArgs(Args{"factor": 1.1}, nil, Args{"units": 100}),
	)
	if err != nil {
		t.Fatal(err)
	}

	got, err := pl.Run(context.Background(), product{price: 4.99, description: "one dozen eggs", units: 20})
	if err != nil {
		t.Fatal(err)
	}
	if got.price < 5.48 || got.price > 5.49 {
		t.Errorf("expected price ~5.489, got %f", got.price)
	}
	if got.description != "One dozen eggs" {
		t.Errorf("expected title-cased description, got %q", got.description)
	}
	if got.units != 120 {
		t.Errorf("expected 120 units, got %d", got.units)
	}
}
