// Copyright 2025 The Truk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sema

import (
	"strings"

	"truklang.org/go/truk/ast"
	"truklang.org/go/truk/literal"
)

// resolveType turns a type expression into a resolved entry, or nil
// when a component is unknown; the caller supplies the contextual
// diagnostic ("Unknown variable type: ...", ...). Map key validation is
// the one check performed here: an invalid key is diagnosed once and
// the map entry is still produced so downstream uses do not cascade.
func (c *checker) resolveType(t ast.Type) *Type {
	switch n := t.(type) {
	case nil:
		return nil

	case *ast.PrimitiveType:
		return primitiveTypes[n.Kind.String()]

	case *ast.NamedType:
		return c.lookupType(n.Name.Name)

	case *ast.GenericType:
		// Generic instantiation is surface syntax; the base name
		// carries the resolved entry.
		return c.lookupType(n.Name.Name)

	case *ast.PointerType:
		base := c.resolveType(n.Base)
		if base == nil {
			return nil
		}
		return pointerTo(base)

	case *ast.ArrayType:
		elem := c.resolveType(n.Elem)
		if elem == nil {
			return nil
		}
		entry := sliceOf(elem)
		if n.Size != nil {
			if lit, ok := n.Size.(*ast.BasicLit); ok {
				if size, err := literal.Uint64(lit.Value); err == nil {
					entry.ArraySize = &size
				}
			}
		}
		return entry

	case *ast.FuncType:
		entry := &Type{Kind: Function, Name: "function", Variadic: n.Variadic}
		for _, p := range n.Params {
			param := c.resolveType(p)
			if param == nil {
				return nil
			}
			entry.Params = append(entry.Params, param)
		}
		if n.Result != nil {
			result := c.resolveType(n.Result)
			if result == nil {
				return nil
			}
			entry.Result = result
		} else {
			entry.Result = typeVoid
		}
		return entry

	case *ast.MapType:
		key := c.resolveType(n.Key)
		value := c.resolveType(n.Value)
		if key == nil || value == nil {
			return nil
		}
		if !isValidMapKey(key) && !c.reportedKeys[n.Key.Pos()] {
			// Type expressions resolve once per use site; report a bad
			// key only once per site.
			c.reportedKeys[n.Key.Pos()] = true
			c.errorf(n.Key.Pos(),
				"Invalid map key type: %s. Keys must be primitives (integers, floats, bool) or string pointers (*u8, *i8)",
				key)
		}
		return &Type{Kind: Map, Name: "map", Key: key, Value: value}

	case *ast.TupleType:
		// Tuples are surface syntax only; there is no resolved entry.
		return nil
	}
	return nil
}

// typeExprString renders a type expression for diagnostics about
// unresolvable types.
func typeExprString(t ast.Type) string {
	switch n := t.(type) {
	case nil:
		return "<unknown>"
	case *ast.PrimitiveType:
		return n.Kind.String()
	case *ast.NamedType:
		return n.Name.Name
	case *ast.GenericType:
		parts := make([]string, len(n.Args))
		for i, a := range n.Args {
			parts[i] = typeExprString(a)
		}
		return n.Name.Name + "[" + strings.Join(parts, ", ") + "]"
	case *ast.PointerType:
		return "*" + typeExprString(n.Base)
	case *ast.ArrayType:
		size := ""
		if lit, ok := n.Size.(*ast.BasicLit); ok {
			size = lit.Value
		}
		return "[" + size + "]" + typeExprString(n.Elem)
	case *ast.FuncType:
		return "fn"
	case *ast.MapType:
		return "map[" + typeExprString(n.Key) + ", " + typeExprString(n.Value) + "]"
	case *ast.TupleType:
		parts := make([]string, len(n.Elems))
		for i, e := range n.Elems {
			parts[i] = typeExprString(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "<unknown>"
}
