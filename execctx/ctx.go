// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package execctx implements the per-path execution context of spec.md
// §4.7: Ctx[T] bundles an env, a heap, a constraint set, a return
// value, a call stack and a log, and CtxSet[T] is the non-empty bag of
// live paths the interpreter drives forward one statement at a time.
package execctx

import (
	"github.com/shapecheck/tsa/constraint"
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

// Status is a Ctx's lifecycle state (spec §4.7).
type Status uint8

const (
	Active Status = iota
	Warned
	Failed
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Warned:
		return "warned"
	case Failed:
		return "failed"
	}
	return "?status?"
}

// LogEntry is one diagnostic record attached to a Ctx (spec §4.9 "log
// entries with source positions").
type LogEntry struct {
	Status  Status
	Message string
	Source  *constraint.Source
}

// Frame is one entry of the call stack, recorded for diagnostics (spec
// §4.8 "pushes a call frame").
type Frame struct {
	FuncName string
	Source   *constraint.Source
}

// Ctx is the immutable unit of path state described in spec §3/§4.7.
// Every operation below returns a new Ctx; nothing is mutated in
// place, which is what lets two Ctx's that forked from a common
// ancestor share untouched state cheaply.
type Ctx[T any] struct {
	Env   *value.Env
	Heap  *value.Heap
	Ctrs  *constraint.CtrSet
	Ret   T
	Stack []Frame
	Logs  []LogEntry

	status Status
}

// New returns a fresh, active root Ctx.
func New[T any](env *value.Env, heap *value.Heap) Ctx[T] {
	return Ctx[T]{Env: env, Heap: heap, Ctrs: constraint.New(), status: Active}
}

// Status reports the Ctx's current lifecycle state.
func (c Ctx[T]) Status() Status { return c.status }

// Active reports whether c is still being explored (warned paths are
// still active per spec §4.7 "Warned paths keep executing").
func (c Ctx[T]) Active() bool { return c.status != Failed }

// PushFrame returns a copy of c with a new call frame on the stack.
func (c Ctx[T]) PushFrame(f Frame) Ctx[T] {
	out := c
	out.Stack = append(append([]Frame{}, c.Stack...), f)
	return out
}

// PopFrame returns a copy of c with the top call frame removed.
func (c Ctx[T]) PopFrame() Ctx[T] {
	out := c
	if len(c.Stack) == 0 {
		return out
	}
	out.Stack = append([]Frame{}, c.Stack[:len(c.Stack)-1]...)
	return out
}

// SetRetVal returns a copy of c with its return-value slot set.
func (c Ctx[T]) SetRetVal(v T) Ctx[T] {
	out := c
	out.Ret = v
	return out
}

// WithEnv returns a copy of c with a different env.
func (c Ctx[T]) WithEnv(e *value.Env) Ctx[T] {
	out := c
	out.Env = e
	return out
}

// WithHeap returns a copy of c with a different heap.
func (c Ctx[T]) WithHeap(h *value.Heap) Ctx[T] {
	out := c
	out.Heap = h
	return out
}

// WithCtrs returns a copy of c with a different constraint set.
func (c Ctx[T]) WithCtrs(cs *constraint.CtrSet) Ctx[T] {
	out := c
	out.Ctrs = cs
	return out
}

// WarnWithMsg appends a warning log entry and, if c isn't already
// failed, transitions it to Warned (spec §4.7, §4.8 "failure semantics
// ... marks the path warned with a descriptive message").
func (c Ctx[T]) WarnWithMsg(msg string, src *constraint.Source) Ctx[T] {
	out := c
	out.Logs = append(append([]LogEntry{}, c.Logs...), LogEntry{Status: Warned, Message: msg, Source: src})
	if out.status == Active {
		out.status = Warned
	}
	return out
}

// FailWithMsg appends a failure log entry and transitions c to Failed.
func (c Ctx[T]) FailWithMsg(msg string, src *constraint.Source) Ctx[T] {
	out := c
	out.Logs = append(append([]LogEntry{}, c.Logs...), LogEntry{Status: Failed, Message: msg, Source: src})
	out.status = Failed
	return out
}

// Require consults checkImmediate for each constraint in turn: a
// definitely-true constraint is skipped, a definitely-false one fails
// the path with msg, and an undecided one is added to the constraint
// set (spec §4.7 "require(list<Ctr>, msg, source)").
func (c Ctx[T]) Require(ctrs []constraint.Ctr, msg string, src *constraint.Source) Ctx[T] {
	out := c
	for _, ctr := range ctrs {
		if !out.Active() {
			return out
		}
		if v := out.Ctrs.CheckImmediate(ctr); v != nil {
			if !*v {
				return out.FailWithMsg(msg, src)
			}
			continue
		}
		out.Ctrs = out.Ctrs.Add(ctr, src, msg)
		if out.Ctrs.Failed() {
			return out.FailWithMsg(out.Ctrs.FailMessage(), src)
		}
	}
	return out
}

// IsTruthy implements spec §4.8 "truthiness": scalars compare against
// zero/empty directly when concrete, or yield a constraint to be
// require'd by the caller when symbolic. It returns (decided, ctr,
// ok): when ok is true and ctr is nil, decided holds the definite
// answer; when ctr is non-nil, the caller must Require it (and its
// negation on the other branch) to split the path.
func IsTruthy(v value.Val, heap *value.Heap) (decided bool, ctr *constraint.Ctr, ok bool) {
	fetched, fok := value.Fetch(v, heap)
	if !fok {
		return false, nil, false
	}
	switch fetched.Tag {
	case value.TagNone, value.TagNotImpl:
		return false, nil, true
	case value.TagBool:
		if bc, isConst := fetched.B.(symbolic.BoolConst); isConst {
			return bool(bc), nil, true
		}
		c := constraint.FromBool(fetched.B)
		return false, &c, true
	case value.TagInt, value.TagFloat:
		if nc, isConst := fetched.Num.(symbolic.NumConst); isConst {
			return nc.Val.Sign() != 0, nil, true
		}
		c := constraint.Ne(fetched.Num, symbolic.Int(0))
		return false, &c, true
	case value.TagString:
		if sc, isConst := fetched.Str.(symbolic.StrConst); isConst {
			return len(string(sc)) != 0, nil, true
		}
		return true, nil, true // non-constant strings: treat as truthy (length unknown)
	case value.TagObject:
		if lv, has := fetched.Obj.Attr("$length"); has {
			return IsTruthy(lv, heap)
		}
		return true, nil, true
	case value.TagError:
		return false, nil, true
	}
	return true, nil, true
}
