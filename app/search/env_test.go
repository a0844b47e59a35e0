package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	n int
}

func TestEnv_BranchRecoversFromLaterFailure(t *testing.T) {
	env := NewEnv(struct{}{})
	var log []string

	env.Enqueue(
		Func[struct{}](func(e *Env[struct{}]) {
			e.Branch(Func[struct{}](func(e *Env[struct{}]) {
				log = append(log, "retry with 42")
				e.Push(42)
			}))
			e.Push(5)
		}),
		Func[struct{}](func(e *Env[struct{}]) {
			if e.Pop() != 42 {
				log = append(log, "not 42")
				e.Fail()
				return
			}
			e.Push("success!")
		}),
	)

	require.True(t, env.Run())
	assert.Equal(t, "success!", env.Pop())
	assert.Equal(t, []string{"not 42", "retry with 42"}, log)
}

func TestEnv_FailWithoutChoicePoints(t *testing.T) {
	env := NewEnv(0)
	env.Enqueue(Func[int](func(e *Env[int]) { e.Fail() }))

	assert.False(t, env.Run())
	assert.True(t, env.Failed())
}

func TestEnv_EnqueuePreservesOrder(t *testing.T) {
	env := NewEnv(0)
	var order []int
	step := func(i int) Action[int] {
		return Func[int](func(*Env[int]) { order = append(order, i) })
	}

	env.Enqueue(step(1), step(2), step(3))
	env.Enqueue(step(0))

	require.True(t, env.Run())
	assert.Equal(t, []int{0, 1, 2, 3}, order)
}

func TestEnv_BacktrackRestoresDataAndState(t *testing.T) {
	env := NewEnv(counter{})

	env.Enqueue(
		Func[counter](func(e *Env[counter]) {
			e.Push("kept")
			e.State.n = 1
		}),
		OneOf[counter](
			Func[counter](func(e *Env[counter]) {
				e.Push("first")
				e.State.n = 99
				e.Fail()
			}),
			Func[counter](func(e *Env[counter]) {
				assert.Equal(t, 1, e.State.n)
				assert.Equal(t, 1, e.Len())
				e.Push("second")
			}),
		),
	)

	require.True(t, env.Run())
	assert.Equal(t, "second", env.Pop())
	assert.Equal(t, "kept", env.Pop())
	assert.Nil(t, env.Pop())
}

func TestChoice_TriesAlternativesInOrder(t *testing.T) {
	env := NewEnv(0)
	var tried []string

	alt := func(name string, ok bool) Action[int] {
		return Func[int](func(e *Env[int]) {
			tried = append(tried, name)
			if !ok {
				e.Fail()
				return
			}
			e.Push(name)
		})
	}

	env.Enqueue(OneOf(alt("a", false), alt("b", false), alt("c", true), alt("d", true)))

	require.True(t, env.Run())
	assert.Equal(t, []string{"a", "b", "c"}, tried)
	assert.Equal(t, "c", env.Pop())
}

func TestChoice_ResumesAfterDownstreamFailure(t *testing.T) {
	env := NewEnv(0)

	env.Enqueue(
		OneOf[int](Push[int](1), Push[int](2), Push[int](3)),
		Func[int](func(e *Env[int]) {
			if e.peek() != 3 {
				e.Fail()
			}
		}),
	)

	require.True(t, env.Run())
	assert.Equal(t, 3, env.Pop())
}

func TestCollectAll(t *testing.T) {
	env := NewEnv(0)
	env.Enqueue(CollectAll[int](Push[int]("a"), Push[int]("b"), Push[int]("c")))

	require.True(t, env.Run())
	assert.Equal(t, []any{"a", "b", "c"}, env.Pop())
	assert.Equal(t, 0, env.Len())
}

// digits consumes a bounded supply of items through the cursor state.
func digits(limit int) Action[int] {
	return Func[int](func(e *Env[int]) {
		if e.State >= limit {
			e.Fail()
			return
		}
		e.Push(e.State)
		e.State++
	})
}

func TestRepeat_Greedy(t *testing.T) {
	env := NewEnv(0)
	env.Enqueue(Repeat(digits(4)))

	require.True(t, env.Run())
	assert.Equal(t, []any{0, 1, 2, 3}, env.Pop())
}

func TestRepeat_GivesBackItemsOnDemand(t *testing.T) {
	env := NewEnv(0)
	env.Enqueue(
		Repeat(digits(5)),
		// Only succeed if exactly two items are left for the tail.
		Func[int](func(e *Env[int]) {
			if e.State != 3 {
				e.Fail()
			}
		}),
	)

	require.True(t, env.Run())
	assert.Equal(t, []any{0, 1, 2}, env.Pop())
}

func TestRepeat_Empty(t *testing.T) {
	env := NewEnv(0)
	env.Enqueue(Repeat(digits(0)))

	require.True(t, env.Run())
	assert.Equal(t, []any{}, env.Pop())
}

func TestRepeat_DeepSearchStaysFlat(t *testing.T) {
	const n = 200_000

	env := NewEnv(0)
	env.Enqueue(Repeat(digits(n)))

	require.True(t, env.Run())
	items, ok := env.Pop().([]any)
	require.True(t, ok)
	assert.Len(t, items, n)
	assert.Equal(t, n-1, items[n-1])
}

func TestLazy_DefersConstruction(t *testing.T) {
	built := 0
	action := Lazy[int](func() Action[int] {
		built++
		return Push[int]("x")
	})

	assert.Equal(t, 0, built)

	env := NewEnv(0)
	env.Enqueue(action, action)
	require.True(t, env.Run())
	assert.Equal(t, 2, built)
}

func TestConstructionRejectsNilActions(t *testing.T) {
	var nilFunc Func[int]

	assert.Panics(t, func() { Sequence[int](Push[int](1), nil) })
	assert.Panics(t, func() { OneOf[int](nilFunc) })
	assert.Panics(t, func() { CollectAll[int](nilFunc) })
	assert.Panics(t, func() { Repeat[int](nil) })
	assert.Panics(t, func() { NewEnv(0).Branch(nil) })
}

func TestRuntimeRejectsTypedNilActions(t *testing.T) {
	var nilFunc Func[int]

	env := NewEnv(0)
	env.Enqueue(Lazy[int](func() Action[int] { return nilFunc }))
	assert.PanicsWithValue(t, "search: nil action at position 0", func() { env.Run() })

	assert.PanicsWithValue(t, "search: nil action at position 1", func() {
		NewEnv(0).Enqueue(Push[int](1), nilFunc)
	})
	assert.PanicsWithValue(t, "search: nil alternative at position 0", func() {
		NewEnv(0).Branch(nilFunc)
	})
}

func TestRunContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := NewEnv(0)
	env.Enqueue(Repeat(digits(10 * ctxCheckInterval)))

	ok, err := env.RunContext(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}
