// Package search implements a resumable backtracking interpreter.
//
// A computation is a list of actions run by an Env. Actions push and pop values
// on a local data stack, schedule more actions, and record choice points. When
// an action fails, the Env rewinds to the most recent choice point and resumes
// its alternative from the queue and data captured when the point was
// recorded. The whole search runs in a flat loop: nesting depth never grows
// the Go call stack.
package search

import (
	"context"
	"fmt"
	"strings"
)

// ctxCheckInterval is how many steps RunContext takes between context polls.
const ctxCheckInterval = 1024

// list is an immutable singly linked list. Snapshots share tails, so
// recording a choice point costs O(1).
type list[T any] struct {
	head T
	tail *list[T]
}

type choicePoint[S any] struct {
	actions *list[Action[S]]
	data    *list[any]
	depth   int
	state   S
}

// Env holds the state of one computation. S is caller-owned local state (for
// example a token cursor) that is captured by value with every choice point.
type Env[S any] struct {
	actions  *list[Action[S]]
	branches []choicePoint[S]
	data     *list[any]
	depth    int
	failed   bool
	steps    int

	// State is restored from the snapshot on backtrack.
	State S
}

// NewEnv creates an Env with the given initial local state.
func NewEnv[S any](state S) *Env[S] {
	return &Env[S]{State: state}
}

// Enqueue schedules actions in front of the pending queue. The first argument
// runs first.
func (e *Env[S]) Enqueue(actions ...Action[S]) {
	for i := len(actions) - 1; i >= 0; i-- {
		if isNil(actions[i]) {
			panic(fmt.Sprintf("search: nil action at position %d", i))
		}
		e.actions = &list[Action[S]]{head: actions[i], tail: e.actions}
	}
}

// Branch records one choice point per alternative. On failure the first
// argument is tried first.
func (e *Env[S]) Branch(alternatives ...Action[S]) {
	for i := len(alternatives) - 1; i >= 0; i-- {
		if isNil(alternatives[i]) {
			panic(fmt.Sprintf("search: nil alternative at position %d", i))
		}
		e.branches = append(e.branches, choicePoint[S]{
			actions: &list[Action[S]]{head: alternatives[i], tail: e.actions},
			data:    e.data,
			depth:   e.depth,
			state:   e.State,
		})
	}
}

// Fail marks the computation as failed. Control does not leave the calling
// action; it must return normally afterwards.
func (e *Env[S]) Fail() {
	e.failed = true
}

// Failed reports whether the current path has failed.
func (e *Env[S]) Failed() bool {
	return e.failed
}

// Push puts a value on the data stack.
func (e *Env[S]) Push(v any) {
	e.data = &list[any]{head: v, tail: e.data}
	e.depth++
}

// Pop removes the top of the data stack. It returns nil on an empty stack.
func (e *Env[S]) Pop() any {
	if e.data == nil {
		return nil
	}
	v := e.data.head
	e.data = e.data.tail
	e.depth--
	return v
}

func (e *Env[S]) peek() any {
	if e.data == nil {
		return nil
	}
	return e.data.head
}

// Len returns the number of values on the data stack.
func (e *Env[S]) Len() int {
	return e.depth
}

// Steps returns how many steps have been taken so far.
func (e *Env[S]) Steps() int {
	return e.steps
}

// Step performs one unit of work: either recovering from a failure by
// resuming the latest choice point, or running the next queued action. It
// reports whether there is more work to do.
func (e *Env[S]) Step() bool {
	e.steps++

	if e.failed {
		if len(e.branches) == 0 {
			return false
		}

		top := e.branches[len(e.branches)-1]
		e.branches = e.branches[:len(e.branches)-1]

		e.actions = top.actions
		e.data = top.data
		e.depth = top.depth
		e.State = top.state
		e.failed = false

		return true
	}

	if e.actions == nil {
		return false
	}

	action := e.actions.head
	e.actions = e.actions.tail
	action.apply(e)

	return true
}

// Run steps until no work is left and reports whether the computation
// succeeded.
func (e *Env[S]) Run() bool {
	for e.Step() {
	}
	return !e.failed
}

// RunContext is Run with cooperative cancellation. The context is checked
// up front and then every few steps; a cancelled context fails the
// computation and returns the context error.
func (e *Env[S]) RunContext(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		e.failed = true
		return false, err
	}
	for e.Step() {
		if e.steps%ctxCheckInterval != 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			e.failed = true
			return false, err
		}
	}
	return !e.failed, nil
}

func (e *Env[S]) String() string {
	var b strings.Builder

	b.WriteString("Env (")
	if e.failed {
		b.WriteString("failed")
	} else {
		b.WriteString("succeeded")
	}
	fmt.Fprintf(&b, ", %d steps, %d choice points)\nData:", e.steps, len(e.branches))

	for node := e.data; node != nil; node = node.tail {
		fmt.Fprintf(&b, " %v", node.head)
	}

	return b.String()
}
