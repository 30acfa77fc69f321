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

package interp

import (
	"github.com/shapecheck/tsa/execctx"
	"github.com/shapecheck/tsa/ir"
	"github.com/shapecheck/tsa/symbolic"
	"github.com/shapecheck/tsa/value"
)

var binOpTable = map[string]symbolic.BinaryOp{
	"+":  symbolic.OpAdd,
	"-":  symbolic.OpSub,
	"*":  symbolic.OpMul,
	"//": symbolic.OpFloorDiv,
	"/":  symbolic.OpTrueDiv,
	"%":  symbolic.OpMod,
	"**": symbolic.OpPow,
}

var cmpOpTable = map[string]bool{"<": false, "<=": true} // value is "inclusive" (Le)

// evalBinOp implements spec §4.8 "BinOp... for numeric and string
// operands the literal-and-symbolic rules in §4.2 apply; otherwise
// dispatch to __op__/__rop__ methods via MRO, falling back to the
// first that succeeds."
func (it *Interpreter) evalBinOp(c execctx.Ctx[value.Val], n ir.BinOp) []ExprResult {
	var out []ExprResult
	for _, lr := range it.EvalExpr(c, n.Left) {
		if !lr.Ctx.Active() {
			out = append(out, lr)
			continue
		}
		for _, rr := range it.EvalExpr(lr.Ctx, n.Right) {
			out = append(out, it.binOpOne(rr.Ctx, n.Op, lr.Val, rr.Val, n))
		}
	}
	return out
}

func (it *Interpreter) binOpOne(c execctx.Ctx[value.Val], op string, l, r value.Val, n ir.BinOp) ExprResult {
	if isNumeric(l) && isNumeric(r) {
		return numBinOp(c, op, l, r, n)
	}
	if l.Tag == value.TagString && r.Tag == value.TagString && op == "+" {
		return ExprResult{Ctx: c, Val: value.Str(symbolic.StrConcat{L: l.Str, R: r.Str})}
	}
	if op == "==" || op == "!=" {
		return structuralEq(c, op, l, r, n)
	}
	return it.dispatchOp(c, op, l, r, n)
}

func isNumeric(v value.Val) bool { return v.Tag == value.TagInt || v.Tag == value.TagFloat }

func numBinOp(c execctx.Ctx[value.Val], op string, l, r value.Val, n ir.BinOp) ExprResult {
	resultTag := value.TagInt
	if l.Tag == value.TagFloat || r.Tag == value.TagFloat || op == "/" {
		resultTag = value.TagFloat
	}
	sop, ok := binOpTable[op]
	if ok {
		e := c.Ctrs.Simplifier().Num(symbolic.NumBinary{Op: sop, L: l.Num, R: r.Num})
		if resultTag == value.TagFloat {
			return ExprResult{Ctx: c, Val: value.Float(e)}
		}
		return ExprResult{Ctx: c, Val: value.Int(e)}
	}
	if _, isCmp := cmpOpTable[op]; isCmp || op == ">" || op == ">=" {
		le, lhs, rhs := normalizeComparison(op, l.Num, r.Num)
		return ExprResult{Ctx: c, Val: value.Bool(symbolic.Lt{L: lhs, R: rhs, Le: le})}
	}
	if op == "==" || op == "!=" {
		return ExprResult{Ctx: c, Val: value.Bool(symbolic.NumEq{L: l.Num, R: r.Num, Ne: op == "!="})}
	}
	return warn(c, "unsupported numeric operator "+op, n.Src())
}

// normalizeComparison rewrites >,>= into </<= with swapped operands so
// only one Lt constructor is ever needed.
func normalizeComparison(op string, l, r symbolic.ExpNum) (le bool, lhs, rhs symbolic.ExpNum) {
	switch op {
	case "<":
		return false, l, r
	case "<=":
		return true, l, r
	case ">":
		return false, r, l
	case ">=":
		return true, r, l
	}
	return false, l, r
}

func structuralEq(c execctx.Ctx[value.Val], op string, l, r value.Val, n ir.BinOp) ExprResult {
	if l.Tag != r.Tag {
		return ExprResult{Ctx: c, Val: value.Bool(symbolic.BoolConst(op == "!="))}
	}
	var eq symbolic.ExpBool
	switch l.Tag {
	case value.TagBool:
		eq = symbolic.BoolEq{L: l.B, R: r.B, Ne: op == "!="}
	case value.TagString:
		eq = symbolic.StringEq{L: l.Str, R: r.Str, Ne: op == "!="}
	case value.TagObject:
		eq = symbolic.BoolConst((l.Obj.ID == r.Obj.ID) != (op == "!="))
	default:
		return warn(c, "unsupported equality comparison", n.Src())
	}
	return ExprResult{Ctx: c, Val: value.Bool(eq)}
}

// dispatchOp is the §4.8 fallback: "dispatch to __op__/__rop__ methods
// via MRO, falling back to the first that succeeds."
func (it *Interpreter) dispatchOp(c execctx.Ctx[value.Val], op string, l, r value.Val, n ir.BinOp) ExprResult {
	name, rname := dunderNames(op)
	if fn, _, ok := lookupMRO(c, l, name); ok && fn.Tag == value.TagFunc {
		results := it.applyFunc(c, fn.Fn.Bind(l), []value.Val{r}, nil, n.Src())
		if len(results) > 0 && results[0].Val.Tag != value.TagNotImpl {
			return ExprResult{Ctx: results[0].Ctx, Val: results[0].Val}
		}
	}
	if fn, _, ok := lookupMRO(c, r, rname); ok && fn.Tag == value.TagFunc {
		results := it.applyFunc(c, fn.Fn.Bind(r), []value.Val{l}, nil, n.Src())
		if len(results) > 0 {
			return ExprResult{Ctx: results[0].Ctx, Val: results[0].Val}
		}
	}
	return warn(c, "no operator overload resolved "+op, n.Src())
}

func dunderNames(op string) (string, string) {
	switch op {
	case "+":
		return "__add__", "__radd__"
	case "-":
		return "__sub__", "__rsub__"
	case "*":
		return "__mul__", "__rmul__"
	case "/":
		return "__truediv__", "__rtruediv__"
	case "//":
		return "__floordiv__", "__rfloordiv__"
	case "%":
		return "__mod__", "__rmod__"
	case "**":
		return "__pow__", "__rpow__"
	}
	return "__" + op + "__", "__r" + op + "__"
}

// evalUnaryOp implements the numeric neg/abs/floor/ceil rules of §4.2
// over a single operand, plus "not" on a boolean. Any other operator on
// a non-numeric operand warns; no __op__ method is looked up through
// the MRO for unary operators.
func (it *Interpreter) evalUnaryOp(c execctx.Ctx[value.Val], n ir.UnaryOp) []ExprResult {
	var out []ExprResult
	for _, xr := range it.EvalExpr(c, n.X) {
		if !xr.Ctx.Active() {
			out = append(out, xr)
			continue
		}
		if n.Op == "not" {
			out = append(out, it.notOp(xr.Ctx, xr.Val, n))
			continue
		}
		if !isNumeric(xr.Val) {
			out = append(out, warn(xr.Ctx, "unary "+n.Op+" on a non-numeric operand", n.Src()))
			continue
		}
		uop, ok := unaryOpTable[n.Op]
		if !ok {
			out = append(out, warn(xr.Ctx, "unsupported unary operator "+n.Op, n.Src()))
			continue
		}
		e := symbolic.NumUnary{Op: uop, X: xr.Val.Num}
		out = append(out, ExprResult{Ctx: xr.Ctx, Val: value.Val{Tag: xr.Val.Tag, Num: e}})
	}
	return out
}

var unaryOpTable = map[string]symbolic.UnaryOp{
	"neg":   symbolic.OpNeg,
	"-":     symbolic.OpNeg,
	"abs":   symbolic.OpAbs,
	"floor": symbolic.OpFloor,
	"ceil":  symbolic.OpCeil,
}

// notOp negates a boolean value. Truthiness of non-bool operands (spec
// §4.8 isTruthy) is a branch-time construct that yields a Ctr to
// Require, not a reusable ExpBool, so "not" outside of a Bool operand
// is left unsupported here rather than faked.
func (it *Interpreter) notOp(c execctx.Ctx[value.Val], v value.Val, n ir.UnaryOp) ExprResult {
	if v.Tag != value.TagBool {
		return warn(c, "not applied to a non-boolean value", n.Src())
	}
	if bc, ok := v.B.(symbolic.BoolConst); ok {
		return ExprResult{Ctx: c, Val: value.Bool(symbolic.BoolConst(!bool(bc)))}
	}
	return ExprResult{Ctx: c, Val: value.Bool(symbolic.BoolNot{X: v.B})}
}
