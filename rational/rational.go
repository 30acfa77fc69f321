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

// Package rational implements exact fraction arithmetic for the symbolic
// expression algebra. Unlike math/big.Rat, division by zero does not
// panic: it produces a signed infinity sentinel that downstream solvers
// treat as "unknown" rather than propagating a panic through path
// exploration.
package rational

import (
	"fmt"
	"math"
	"math/big"
)

// sign of infinity; zero means "not infinite".
type infSign int8

const (
	notInf infSign = 0
	posInf infSign = 1
	negInf infSign = -1
)

// Rational is an exact fraction num/den, den > 0 by convention after
// normalize. A Rational may also represent signed infinity, produced only
// by division by zero; infinities are opaque to further exact arithmetic
// and poison any operation they participate in.
type Rational struct {
	num, den big.Int
	inf      infSign
}

// Zero is the additive identity.
func Zero() Rational {
	r := Rational{}
	r.den.SetInt64(1)
	return r
}

// FromInt64 builds an integral Rational.
func FromInt64(n int64) Rational {
	r := Rational{}
	r.num.SetInt64(n)
	r.den.SetInt64(1)
	return r
}

// FromInts builds num/den and normalizes it; den == 0 yields signed
// infinity (sign taken from num; num == 0 too yields +Inf by convention).
func FromInts(num, den int64) Rational {
	r := Rational{}
	r.num.SetInt64(num)
	r.den.SetInt64(den)
	return r.normalize()
}

// FromFloat converts a float64 into an exact Rational via big.Rat's
// binary expansion; NaN and +-Inf map to the corresponding sentinel.
func FromFloat(f float64) Rational {
	if f != f { // NaN
		return Rational{inf: posInf}
	}
	br := new(big.Rat)
	if br.SetFloat64(f) == nil {
		if f > 0 {
			return Rational{inf: posInf}
		}
		return Rational{inf: negInf}
	}
	r := Rational{}
	r.num.Set(br.Num())
	r.den.Set(br.Denom())
	return r.normalize()
}

// IsInf reports whether r is a signed-infinity sentinel.
func (r Rational) IsInf() bool { return r.inf != notInf }

// Sign returns -1, 0, or 1.
func (r Rational) Sign() int {
	if r.inf != notInf {
		return int(r.inf)
	}
	return r.num.Sign()
}

// normalize divides num/den by their GCD and canonicalizes the sign of
// den to be positive; called by every constructor and every arithmetic
// result.
func (r Rational) normalize() Rational {
	if r.inf != notInf {
		return Rational{inf: r.inf}
	}
	if r.den.Sign() == 0 {
		switch r.num.Sign() {
		case 0:
			return Rational{inf: posInf}
		case 1:
			return Rational{inf: posInf}
		default:
			return Rational{inf: negInf}
		}
	}
	if r.den.Sign() < 0 {
		r.num.Neg(&r.num)
		r.den.Neg(&r.den)
	}
	if r.num.Sign() == 0 {
		r.den.SetInt64(1)
		return r
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(&r.num), new(big.Int).Abs(&r.den))
	if g.Cmp(big.NewInt(1)) > 0 {
		r.num.Quo(&r.num, g)
		r.den.Quo(&r.den, g)
	}
	return r
}

func addInf(a, b infSign) infSign {
	switch {
	case a == notInf:
		return b
	case b == notInf:
		return a
	case a == b:
		return a
	default:
		// +Inf + -Inf: unknown, treated as +Inf (caller should not rely
		// on cancellation between sentinels).
		return posInf
	}
}

// Add returns a+b.
func (a Rational) Add(b Rational) Rational {
	if a.inf != notInf || b.inf != notInf {
		return Rational{inf: addInf(a.inf, b.inf)}
	}
	r := Rational{}
	r.num.Mul(&a.num, &b.den)
	t := new(big.Int).Mul(&b.num, &a.den)
	r.num.Add(&r.num, t)
	r.den.Mul(&a.den, &b.den)
	return r.normalize()
}

// Neg returns -a.
func (a Rational) Neg() Rational {
	if a.inf != notInf {
		return Rational{inf: -a.inf}
	}
	r := Rational{}
	r.num.Neg(&a.num)
	r.den.Set(&a.den)
	return r
}

// Sub returns a-b.
func (a Rational) Sub(b Rational) Rational { return a.Add(b.Neg()) }

// Mul returns a*b.
func (a Rational) Mul(b Rational) Rational {
	if a.inf != notInf || b.inf != notInf {
		s := a.Sign() * b.Sign()
		if s > 0 {
			return Rational{inf: posInf}
		} else if s < 0 {
			return Rational{inf: negInf}
		}
		return Rational{inf: posInf}
	}
	r := Rational{}
	r.num.Mul(&a.num, &b.num)
	r.den.Mul(&a.den, &b.den)
	return r.normalize()
}

// Div returns a/b; b == 0 yields a signed infinity sentinel rather than
// panicking, per package doc.
func (a Rational) Div(b Rational) Rational {
	if b.inf != notInf {
		return Rational{}
	}
	if b.num.Sign() == 0 {
		switch a.Sign() {
		case 0:
			return Rational{inf: posInf}
		case 1:
			return Rational{inf: posInf}
		default:
			return Rational{inf: negInf}
		}
	}
	if a.inf != notInf {
		s := a.Sign() * b.Sign()
		if s >= 0 {
			return Rational{inf: posInf}
		}
		return Rational{inf: negInf}
	}
	r := Rational{}
	r.num.Mul(&a.num, &b.den)
	r.den.Mul(&a.den, &b.num)
	return r.normalize()
}

// Floor returns the greatest integer <= a, as an integral Rational.
func (a Rational) Floor() Rational {
	if a.inf != notInf {
		return a
	}
	q := new(big.Int)
	m := new(big.Int)
	q.QuoRem(&a.num, &a.den, m)
	if m.Sign() < 0 {
		q.Sub(q, big.NewInt(1))
	}
	r := Rational{}
	r.num.Set(q)
	r.den.SetInt64(1)
	return r
}

// Ceil returns the least integer >= a.
func (a Rational) Ceil() Rational {
	f := a.Floor()
	if a.inf != notInf {
		return a
	}
	if f.Cmp(a) == 0 {
		return f
	}
	return f.Add(FromInt64(1))
}

// Int64 returns a's exact value when a is an integer that fits in an
// int64, and reports whether that conversion was possible.
func (a Rational) Int64() (int64, bool) {
	if a.inf != notInf || a.den.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	if !a.num.IsInt64() {
		return 0, false
	}
	return a.num.Int64(), true
}

// IsInt reports whether a reduces to an integer.
func (a Rational) IsInt() bool {
	if a.inf != notInf {
		return false
	}
	return a.den.Cmp(big.NewInt(1)) == 0
}

// Cmp returns -1, 0, +1 comparing a to b; infinities compare by sign,
// with two equal-signed infinities considered equal (un-refinable).
func (a Rational) Cmp(b Rational) int {
	if a.inf != notInf || b.inf != notInf {
		as, bs := int(a.inf), int(b.inf)
		if a.inf == notInf {
			as = a.Sign()
		}
		if b.inf == notInf {
			bs = b.Sign()
		}
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		default:
			return 0
		}
	}
	l := new(big.Int).Mul(&a.num, &b.den)
	r := new(big.Int).Mul(&b.num, &a.den)
	return l.Cmp(r)
}

// ToFloat converts a to the nearest float64; infinities map to math.Inf.
func (a Rational) ToFloat() float64 {
	if a.inf == posInf {
		return math.Inf(1)
	}
	if a.inf == negInf {
		return math.Inf(-1)
	}
	br := new(big.Rat)
	br.SetFrac(&a.num, &a.den)
	f, _ := br.Float64()
	return f
}

func (a Rational) String() string {
	if a.inf == posInf {
		return "+Inf"
	}
	if a.inf == negInf {
		return "-Inf"
	}
	if a.den.Cmp(big.NewInt(1)) == 0 {
		return a.num.String()
	}
	return fmt.Sprintf("%s/%s", a.num.String(), a.den.String())
}
