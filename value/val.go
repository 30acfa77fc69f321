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

// Package value implements the value algebra and the persistent
// environment/heap memory model of spec.md §3/§4.6: a tagged-union Val,
// a name->address Env, and an addr->value Heap, plus the
// dereference/merge helpers the interpreter needs to chase address
// chains across forked paths.
package value

import (
	"fmt"

	"github.com/shapecheck/tsa/symbolic"
)

// Tag discriminates the Val tagged union (spec §3 "Value (Val)").
type Tag uint8

const (
	TagAddr Tag = iota
	TagInt
	TagFloat
	TagBool
	TagString
	TagNone
	TagNotImpl
	TagError
	TagObject
	TagFunc
)

func (t Tag) String() string {
	switch t {
	case TagAddr:
		return "addr"
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagBool:
		return "bool"
	case TagString:
		return "string"
	case TagNone:
		return "none"
	case TagNotImpl:
		return "notimpl"
	case TagError:
		return "error"
	case TagObject:
		return "object"
	case TagFunc:
		return "func"
	}
	return "?tag?"
}

// ErrorLevel distinguishes a soft (warn-and-continue) from a hard
// (path-ending) error value, mirroring the Ctx status split of §4.7.
type ErrorLevel uint8

const (
	ErrorWarn ErrorLevel = iota
	ErrorFail
)

// Val is the immutable tagged-union value every expression evaluates
// to. Exactly one of the fields below is meaningful, selected by Tag;
// scalars may themselves be symbolic (an ExpNum/ExpBool/ExpString tree)
// rather than a concrete literal, which is why Num/Bool/Str hold
// symbolic expressions rather than Go primitives.
type Val struct {
	Tag Tag

	Addr Addr // TagAddr

	Num symbolic.ExpNum    // TagInt, TagFloat
	B   symbolic.ExpBool   // TagBool
	Str symbolic.ExpString // TagString

	ErrLevel ErrorLevel // TagError
	ErrMsg   string     // TagError

	Obj *Object // TagObject
	Fn  *Func   // TagFunc
}

// Addr is a heap address. Negative addresses are reserved for
// built-ins installed by the prelude (spec §4.6 invariant (a)).
type Addr int64

// NoAddr is not a valid address; it is returned by lookups that fail.
const NoAddr Addr = 0

func (a Addr) String() string { return fmt.Sprintf("@%d", int64(a)) }

// None, NotImpl are the two valueless singletons.
func None() Val         { return Val{Tag: TagNone} }
func NotImpl() Val      { return Val{Tag: TagNotImpl} }
func IsNone(v Val) bool { return v.Tag == TagNone }

// Error builds an Error value at the given severity.
func Error(level ErrorLevel, msg string) Val {
	return Val{Tag: TagError, ErrLevel: level, ErrMsg: msg}
}

// IsError reports whether v is an Error value.
func IsError(v Val) bool { return v.Tag == TagError }

// FromAddr wraps a heap address as a Val.
func FromAddr(a Addr) Val { return Val{Tag: TagAddr, Addr: a} }

// Int wraps a symbolic numeric expression as an int-sorted Val.
func Int(e symbolic.ExpNum) Val { return Val{Tag: TagInt, Num: e} }

// Float wraps a symbolic numeric expression as a float-sorted Val.
func Float(e symbolic.ExpNum) Val { return Val{Tag: TagFloat, Num: e} }

// Bool wraps a symbolic boolean expression as a Val.
func Bool(e symbolic.ExpBool) Val { return Val{Tag: TagBool, B: e} }

// Str wraps a symbolic string expression as a Val.
func Str(e symbolic.ExpString) Val { return Val{Tag: TagString, Str: e} }

// FromObject wraps an Object pointer as a Val.
func FromObject(o *Object) Val { return Val{Tag: TagObject, Obj: o} }

// FromFunc wraps a Func pointer as a Val.
func FromFunc(f *Func) Val { return Val{Tag: TagFunc, Fn: f} }

func (v Val) String() string {
	switch v.Tag {
	case TagAddr:
		return v.Addr.String()
	case TagInt, TagFloat:
		return v.Num.String()
	case TagBool:
		return v.B.String()
	case TagString:
		return v.Str.String()
	case TagNone:
		return "none"
	case TagNotImpl:
		return "notimpl"
	case TagError:
		return fmt.Sprintf("error(%v, %s)", v.ErrLevel, v.ErrMsg)
	case TagObject:
		return v.Obj.String()
	case TagFunc:
		return v.Fn.String()
	}
	return "?val?"
}
