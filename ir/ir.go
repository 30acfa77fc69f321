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

// Package ir defines the external intermediate-representation tree the
// interpreter walks (spec.md §2 item 9 "Input: an IR program... produced
// by the parser collaborator", §4.8). The parser that produces this
// tree, and the tree's own construction/validation, are out of scope
// (spec §1 "the source-language parser... out of scope; named as
// external collaborators"); this package only fixes the shape the
// interpreter consumes.
package ir

import "github.com/shapecheck/tsa/constraint"

// Stmt is the marker interface every statement node implements.
type Stmt interface {
	stmt()
	Src() *constraint.Source
}

// Expr is the marker interface every expression node implements.
type Expr interface {
	expr()
	Src() *constraint.Source
}

type base struct {
	Source *constraint.Source
}

func (b base) Src() *constraint.Source { return b.Source }

// --- statements ---

// Seq runs Stmts in order.
type Seq struct {
	base
	Stmts []Stmt
}

// Pass does nothing.
type Pass struct{ base }

// ExprStmt evaluates Value for effect and discards the result.
type ExprStmt struct {
	base
	Value Expr
}

// Target is an assignment destination: a bare Name, an Attr access, or
// a Subscr access (spec §4.8 "Assign may target Name / Attr / Subscr").
type Target struct {
	base
	Kind     TargetKind
	Name     string // TargetName
	Object   Expr   // TargetAttr / TargetSubscr: the base expression
	AttrName string // TargetAttr
	Index    Expr   // TargetSubscr
}

// TargetKind discriminates Target.
type TargetKind uint8

const (
	TargetName TargetKind = iota
	TargetAttr
	TargetSubscr
)

// Assign stores Value's result into Target.
type Assign struct {
	base
	Target Target
	Value  Expr
}

// Let allocates a fresh heap slot bound to Name, evaluates Body with it
// in scope, then restores the outer env (spec §4.8 "Let(name, expr?,
// body)"). Init is optional (nil means the slot holds None).
type Let struct {
	base
	Name string
	Init Expr
	Body Stmt
}

// FunDef binds Name to a freshly-allocated Func capturing the current
// env, then evaluates Scope (spec §4.8).
type FunDef struct {
	base
	Name     string
	Params   []string
	Varargs  string
	Kwargs   string
	Defaults map[string]Expr
	Body     Stmt
	Scope    Stmt
}

// If splits execution via ifThenElse (spec §4.8).
type If struct {
	base
	Cond Expr
	Then Stmt
	Else Stmt // nil if there is no else-branch
}

// ForIn iterates Iter, binding each element to Iden in turn (spec
// §4.8). The loop is unrolled once per element of the iterable Object,
// up to a fixed bound (SPEC_FULL §A default 300, spec §5); no split
// between "terminated" and "continues" is made.
type ForIn struct {
	base
	Iden string
	Iter Expr
	Body Stmt
}

// Return, Break, Continue set a status flag interpreted by the
// enclosing Seq/ForIn/FunDef (spec §4.8).
type Return struct {
	base
	Value Expr // nil means "return None"
}
type Break struct{ base }
type Continue struct{ base }

func (Seq) stmt()      {}
func (Pass) stmt()     {}
func (ExprStmt) stmt() {}
func (Assign) stmt()   {}
func (Let) stmt()      {}
func (FunDef) stmt()   {}
func (If) stmt()       {}
func (ForIn) stmt()    {}
func (Return) stmt()   {}
func (Break) stmt()    {}
func (Continue) stmt() {}

// --- expressions ---

// ConstKind discriminates the literal kinds a Const node may hold.
type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstNotImpl
	ConstBool
	ConstInt
	ConstFloat
	ConstString
)

// Const is a literal value written directly in source.
type Const struct {
	base
	Kind ConstKind
	Bool bool
	Int  int64
	Flt  float64
	Str  string
}

// Name is a bare identifier reference, resolved via env lookup then
// fetch (spec §4.8).
type Name struct {
	base
	Ident string
}

// ObjectLit constructs a fresh, empty Object in the heap (spec §4.8).
type ObjectLit struct{ base }

// Tuple and List construct an Object with integer-indexed elements
// (spec §4.8 "Tuple / List (via LibCall genList)"); Tuple is
// immutable by source-language convention, List is not - the
// distinction matters to library calls, not to this package.
type Tuple struct {
	base
	Elems []Expr
}
type List struct {
	base
	Elems []Expr
}

// Attr resolves Name on Object's MRO chain (spec §4.8).
type Attr struct {
	base
	Object Expr
	Name   string
}

// Subscr resolves Index on Object, either as a direct integer index or
// via __getitem__ dispatch (spec §4.8).
type Subscr struct {
	base
	Object Expr
	Index  Expr
}

// BinOp applies Op to Left/Right (spec §4.8).
type BinOp struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

// UnaryOp applies Op to X.
type UnaryOp struct {
	base
	Op string
	X  Expr
}

// Call evaluates Callee and Args/Kwargs and applies them (spec §4.8).
type Call struct {
	base
	Callee Expr
	Args   []Expr
	Kwargs map[string]Expr
}

// LibCall dispatches to an externally-registered library call by Kind,
// a string path into the registry (spec §4.8, §6).
type LibCall struct {
	base
	Kind   string
	Params []Expr
}

func (Const) expr()     {}
func (Name) expr()      {}
func (ObjectLit) expr() {}
func (Tuple) expr()     {}
func (List) expr()      {}
func (Attr) expr()      {}
func (Subscr) expr()    {}
func (BinOp) expr()     {}
func (UnaryOp) expr()   {}
func (Call) expr()      {}
func (LibCall) expr()   {}
