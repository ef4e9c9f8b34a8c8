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
	"fmt"
	"strings"
)

// Kind classifies resolved type entries.
type Kind uint8

const (
	Invalid Kind = iota
	Primitive
	Named // user-declared enum
	Pointer
	Array
	Function
	Map
	Struct
	Void
	UntypedInt
	UntypedFloat
)

// A Type is a resolved type entry: what the checker actually compares.
// Struct and enum entries are completed in place by the pre-registration
// pass; after that, entries are not modified and are shared freely.
type Type struct {
	Kind         Kind
	Name         string
	PointerDepth int
	Pointee      *Type   // for Pointer
	Elem         *Type   // for Array
	ArraySize    *uint64 // nil means unsized (slice)
	Params       []*Type // for Function
	Result       *Type   // for Function
	Variadic     bool
	Key, Value   *Type // for Map

	// Struct
	FieldNames []string
	Fields     map[string]*Type

	// Enum (Kind == Named)
	Backing    *Type
	EnumValues map[string]int64

	// Builtin function entries
	Builtin     bool
	BuiltinKind BuiltinKind
}

// IsEnum reports whether t is a user-declared enum entry.
func (t *Type) IsEnum() bool { return t != nil && t.EnumValues != nil }

// IsUntyped reports whether t is an unresolved literal type.
func (t *Type) IsUntyped() bool {
	return t != nil && (t.Kind == UntypedInt || t.Kind == UntypedFloat)
}

// IsSlice reports whether t is an unsized array.
func (t *Type) IsSlice() bool {
	return t != nil && t.Kind == Array && t.ArraySize == nil
}

func primType(name string) *Type { return &Type{Kind: Primitive, Name: name} }

var (
	typeVoid         = &Type{Kind: Void, Name: "void"}
	typeBool         = primType("bool")
	typeUntypedInt   = &Type{Kind: UntypedInt, Name: "untyped_int"}
	typeUntypedFloat = &Type{Kind: UntypedFloat, Name: "untyped_float"}
)

var primitiveTypes = map[string]*Type{
	"i8":   primType("i8"),
	"i16":  primType("i16"),
	"i32":  primType("i32"),
	"i64":  primType("i64"),
	"u8":   primType("u8"),
	"u16":  primType("u16"),
	"u32":  primType("u32"),
	"u64":  primType("u64"),
	"f32":  primType("f32"),
	"f64":  primType("f64"),
	"bool": typeBool,
	"void": typeVoid,
}

// pointerTo wraps t in one more level of pointer.
func pointerTo(t *Type) *Type {
	return &Type{
		Kind:         Pointer,
		Name:         t.Name,
		PointerDepth: t.PointerDepth + 1,
		Pointee:      t,
	}
}

// sliceOf returns the unsized array of elem.
func sliceOf(elem *Type) *Type {
	return &Type{Kind: Array, Name: elem.Name, Elem: elem}
}

// stringType is the type of a string literal: *u8.
func stringType() *Type { return pointerTo(primitiveTypes["u8"]) }

// nilType is the type of the nil literal: *void.
func nilType() *Type { return pointerTo(typeVoid) }

// equalTypes reports whether two resolved entries are equal: every
// field must match. Untyped entries are never equal to anything; they
// must resolve first.
func equalTypes(a, b *Type) bool {
	if a == nil || b == nil {
		return false
	}
	if a.IsUntyped() || b.IsUntyped() {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.PointerDepth != b.PointerDepth {
		return false
	}
	if a.Name != b.Name {
		return false
	}
	if !equalSizes(a.ArraySize, b.ArraySize) {
		return false
	}
	if a.Kind == Array && a.Elem != nil && b.Elem != nil {
		if !equalTypes(a.Elem, b.Elem) {
			return false
		}
	}
	if a.Kind == Map {
		if a.Key != nil && b.Key != nil && !equalTypes(a.Key, b.Key) {
			return false
		}
		if a.Value != nil && b.Value != nil && !equalTypes(a.Value, b.Value) {
			return false
		}
	}
	if a.Kind == Function {
		if len(a.Params) != len(b.Params) || a.Variadic != b.Variadic {
			return false
		}
		for i := range a.Params {
			if !equalTypes(a.Params[i], b.Params[i]) {
				return false
			}
		}
		if (a.Result == nil) != (b.Result == nil) || (a.Result != nil && !equalTypes(a.Result, b.Result)) {
			return false
		}
	}
	return true
}

func equalSizes(a, b *uint64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func isNumericName(name string) bool {
	switch name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "f32", "f64":
		return true
	}
	return false
}

// isNumeric reports whether t is a numeric primitive or an untyped
// numeric literal.
func isNumeric(t *Type) bool {
	if t == nil {
		return false
	}
	if t.IsUntyped() {
		return true
	}
	return t.Kind == Primitive && isNumericName(t.Name)
}

// isInteger reports whether t is an integer primitive or an untyped
// integer literal.
func isInteger(t *Type) bool {
	if t == nil {
		return false
	}
	if t.Kind == UntypedInt {
		return true
	}
	if t.Kind != Primitive {
		return false
	}
	switch t.Name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64":
		return true
	}
	return false
}

func isFloat(t *Type) bool {
	if t == nil || t.Kind != Primitive {
		return false
	}
	return t.Name == "f32" || t.Name == "f64"
}

func isBoolean(t *Type) bool {
	return t != nil && t.Kind == Primitive && t.Name == "bool"
}

// isComparable reports whether t participates in comparison operators:
// numeric, bool, or pointer.
func isComparable(t *Type) bool {
	if t == nil {
		return false
	}
	if isNumeric(t) || isBoolean(t) {
		return true
	}
	return t.Kind == Pointer
}

// isValidMapKey enforces the restricted key-type set: primitives
// (integers, floats, bool) or the 1-level string pointers *u8 and *i8.
func isValidMapKey(t *Type) bool {
	if t == nil {
		return false
	}
	if t.Kind == Primitive {
		return isNumericName(t.Name) || t.Name == "bool"
	}
	if t.Kind == Pointer && t.PointerDepth == 1 {
		return t.Name == "u8" || t.Name == "i8"
	}
	return false
}

// String renders a resolved entry the way diagnostics name types.
func (t *Type) String() string {
	if t == nil {
		return "<unknown>"
	}
	switch t.Kind {
	case Pointer:
		return strings.Repeat("*", t.PointerDepth) + t.Name
	case Array:
		size := ""
		if t.ArraySize != nil {
			size = fmt.Sprint(*t.ArraySize)
		}
		return "[" + size + "]" + t.Name
	case Map:
		if t.Key != nil && t.Value != nil {
			return "map[" + t.Key.String() + ", " + t.Value.String() + "]"
		}
		return "map[<unknown>, <unknown>]"
	}
	return t.Name
}
