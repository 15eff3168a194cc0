package core

import (
	"sync"

	"github.com/petermattis/goid"
)

// scopes maps goroutine id -> *scopeStack. Entries are created on first
// push and removed when the owning goroutine pops its last frame, so the
// map stays empty for goroutines that never use scoped context.
var scopes sync.Map

type scopeStack struct {
	frames [][]Field
}

// PushScope pushes fields onto the calling goroutine's context stack and
// returns the pop function. Callers must arrange for the pop to run on
// every exit path:
//
//	pop := core.PushScope(core.String("request_id", id))
//	defer pop()
//
// The fields are merged into every record built by this goroutine until
// the pop, and are never visible to other goroutines.
func PushScope(fields ...Field) (pop func()) {
	gid := goid.Get()

	var st *scopeStack
	if v, ok := scopes.Load(gid); ok {
		st = v.(*scopeStack)
	} else {
		st = &scopeStack{}
		scopes.Store(gid, st)
	}
	st.frames = append(st.frames, fields)

	return func() {
		st.frames = st.frames[:len(st.frames)-1]
		if len(st.frames) == 0 {
			scopes.Delete(gid)
		}
	}
}

// scopedFields returns the calling goroutine's scoped fields flattened
// oldest frame first, so inner scopes shadow outer ones under the
// later-wins lookup rule. Returns nil when the goroutine has no scope.
func scopedFields() []Field {
	v, ok := scopes.Load(goid.Get())
	if !ok {
		return nil
	}
	st := v.(*scopeStack)

	if len(st.frames) == 1 {
		return st.frames[0]
	}
	n := 0
	for _, f := range st.frames {
		n += len(f)
	}
	out := make([]Field, 0, n)
	for _, f := range st.frames {
		out = append(out, f...)
	}
	return out
}
