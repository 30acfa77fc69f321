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

package value

// Env is a persistent name->address mapping (spec §4.6). Every mutating
// operation returns a new Env; an Env that hasn't been touched along a
// particular path shares its backing map with every sibling that forked
// from the same parent, so a fork is a pointer copy until one side
// actually binds or removes a name.
type Env struct {
	vars map[string]Addr
}

// NewEnv returns an empty Env.
func NewEnv() *Env {
	return &Env{}
}

// Get looks up name, returning (addr, true) if bound.
func (e *Env) Get(name string) (Addr, bool) {
	if e == nil || e.vars == nil {
		return NoAddr, false
	}
	a, ok := e.vars[name]
	return a, ok
}

// Set returns a new Env with name bound to addr.
func (e *Env) Set(name string, addr Addr) *Env {
	out := &Env{vars: make(map[string]Addr, len(e.vars)+1)}
	for k, v := range e.vars {
		out.vars[k] = v
	}
	out.vars[name] = addr
	return out
}

// Remove returns a new Env with name unbound.
func (e *Env) Remove(name string) *Env {
	if _, ok := e.Get(name); !ok {
		return e
	}
	out := &Env{vars: make(map[string]Addr, len(e.vars))}
	for k, v := range e.vars {
		if k != name {
			out.vars[k] = v
		}
	}
	return out
}

// Names returns the bound names, in no particular order.
func (e *Env) Names() []string {
	out := make([]string, 0, len(e.vars))
	for k := range e.vars {
		out = append(out, k)
	}
	return out
}

// MergeEnv implements the env half of spec §4.6 "Merging": the right
// env's addresses are relocated by offset (the left heap's address
// high-water mark at the time of the fork) before the two maps are
// unioned, so the same two envs can be safely combined whether or not
// their addresses accidentally collided.
func MergeEnv(left, right *Env, offset Addr) *Env {
	out := &Env{vars: make(map[string]Addr, len(left.vars)+len(right.vars))}
	for k, v := range left.vars {
		out.vars[k] = v
	}
	for k, v := range right.vars {
		out.vars[k] = relocate(v, offset)
	}
	return out
}

func relocate(a Addr, offset Addr) Addr {
	if a < 0 {
		return a // built-ins are never relocated (spec §4.6 invariant (a))
	}
	return a + offset
}
