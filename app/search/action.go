package search

import (
	"fmt"
	"reflect"
)

// Action is one step of a computation. It is a closed set: a primitive Func,
// or one of the composites Seq, Choice and Lazy.
type Action[S any] interface {
	apply(env *Env[S])
}

// Func is a primitive action.
type Func[S any] func(env *Env[S])

func (f Func[S]) apply(env *Env[S]) {
	f(env)
}

// Seq runs its actions in order.
type Seq[S any] []Action[S]

func (s Seq[S]) apply(env *Env[S]) {
	env.Enqueue(s...)
}

// Choice tries its alternatives in order, moving to the next one whenever
// everything scheduled after the current alternative fails.
type Choice[S any] []Action[S]

func (c Choice[S]) apply(env *Env[S]) {
	// Record every alternative and fail at once, so the first one is resumed.
	env.Branch(c...)
	env.Fail()
}

// Lazy defers building an action until it runs. Recursive grammars reference
// themselves through Lazy so construction terminates.
type Lazy[S any] func() Action[S]

func (l Lazy[S]) apply(env *Env[S]) {
	env.Enqueue(l())
}

// Sequence builds a Seq, rejecting nil steps.
func Sequence[S any](steps ...Action[S]) Seq[S] {
	mustActions(steps)
	return Seq[S](steps)
}

// OneOf builds a Choice, rejecting nil alternatives.
func OneOf[S any](alternatives ...Action[S]) Choice[S] {
	mustActions(alternatives)
	return Choice[S](alternatives)
}

// Push returns an action that pushes a constant.
func Push[S any](v any) Func[S] {
	return func(env *Env[S]) {
		env.Push(v)
	}
}

// CollectAll runs every step, then replaces the values they pushed with a
// single []any in step order.
func CollectAll[S any](steps ...Action[S]) Action[S] {
	mustActions(steps)
	n := len(steps)

	collect := Func[S](func(env *Env[S]) {
		env.Push(popN(env, n))
	})

	all := make(Seq[S], 0, n+1)
	all = append(all, steps...)
	return append(all, collect)
}

// Repeat matches item zero or more times, greedily, and pushes everything it
// matched as a []any in match order.
func Repeat[S any](item Action[S]) Action[S] {
	mustActions([]Action[S]{item})
	return repeatFrom(item, 0)
}

func repeatFrom[S any](item Action[S], matched int) Action[S] {
	return Lazy[S](func() Action[S] {
		return Choice[S]{
			Seq[S]{item, repeatFrom(item, matched+1)},
			Func[S](func(env *Env[S]) {
				env.Push(popN(env, matched))
			}),
		}
	})
}

// popN pops n values and returns them oldest first.
func popN[S any](env *Env[S], n int) []any {
	res := make([]any, n)
	for i := n - 1; i >= 0; i-- {
		res[i] = env.Pop()
	}
	return res
}

func mustActions[S any](actions []Action[S]) {
	for i, a := range actions {
		if isNil(a) {
			panic(fmt.Sprintf("search: action %d is a nil %T", i, a))
		}
	}
}

// isNil also catches typed nils, such as a nil Func stored in an Action.
func isNil[S any](a Action[S]) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	return v.Kind() == reflect.Func && v.IsNil()
}
