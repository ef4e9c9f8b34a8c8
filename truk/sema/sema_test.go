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
	"testing"

	"golang.org/x/tools/txtar"

	"truklang.org/go/truk/ast"
	"truklang.org/go/truk/errors"
	"truklang.org/go/truk/parser"
)

// checkSrc parses a single file and runs all semantic passes over it.
func checkSrc(t *testing.T, src string) []errors.Error {
	t.Helper()
	f, err := parser.ParseFile("test.truk", src)
	if err != nil {
		t.Fatalf("parse error: %v", errors.Details(err, nil))
	}
	return errors.Errors(Check(f))
}

// checkArchive parses every file of a txtar archive and checks them as
// one program, so cross-file visibility and shard rules apply.
func checkArchive(t *testing.T, archive string) []errors.Error {
	t.Helper()
	var files []*ast.File
	for _, file := range txtar.Parse([]byte(archive)).Files {
		f, err := parser.ParseFile(file.Name, file.Data)
		if err != nil {
			t.Fatalf("parse error in %s: %v", file.Name, errors.Details(err, nil))
		}
		files = append(files, f)
	}
	return errors.Errors(Check(files...))
}

func wantErrors(t *testing.T, errs []errors.Error, count int, substrings ...string) {
	t.Helper()
	if count >= 0 && len(errs) != count {
		t.Errorf("got %d errors, want %d:", len(errs), count)
		for _, e := range errs {
			t.Errorf("  %v", e)
		}
	}
	for _, want := range substrings {
		found := false
		for _, e := range errs {
			if strings.Contains(e.Error(), want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no error mentions %q; got:", want)
			for _, e := range errs {
				t.Errorf("  %v", e)
			}
		}
	}
}

// ----------------------------------------------------------------------------
// End-to-end scenarios

func TestEmptyMain(t *testing.T) {
	wantErrors(t, checkSrc(t, "fn main() {}"), 0)
}

func TestLinkedListWalk(t *testing.T) {
	const src = `
struct Node { value: i32, next: *Node }
fn sum(head: *Node): i32 {
	var s: i32 = 0;
	var c: *Node = head;
	while c != nil {
		s = s + c.value;
		c = c.next;
	}
	return s;
}
`
	// The self-referential pointer field is accepted and c != nil is a
	// pointer-vs-void-pointer comparison; member access through the
	// pointer reports the '->' guidance for each use.
	errs := checkSrc(t, src)
	wantErrors(t, errs, 2, "Cannot use '.' on pointer type, use '->' instead")
}

func TestFloatToIntInitialization(t *testing.T) {
	errs := checkSrc(t, "fn test() { var x: i32 = 3.14; }")
	wantErrors(t, errs, 1, "Type mismatch in variable initialization")
}

func TestForLoopScope(t *testing.T) {
	const src = `
fn f() {
	for i = 0; i < 10; i = i + 1 {
		if i == 5 {
			break;
		}
	}
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestForLoopVariableNotVisibleAfter(t *testing.T) {
	const src = `
fn f(): i32 {
	for i = 0; i < 10; i = i + 1 { }
	return i;
}
`
	wantErrors(t, checkSrc(t, src), 1, "Undefined identifier: i")
}

func TestLambdaCapture(t *testing.T) {
	const src = `
fn outer() {
	var x: i32 = 1;
	var l: fn(): i32 = fn(): i32 { return x; };
}
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1,
		"Lambda cannot capture variable 'x' from enclosing scope. Use context parameter instead.")
}

func TestLambdaMayUseGlobals(t *testing.T) {
	const src = `
var g: i32 = 1;
fn outer() {
	var l: fn(): i32 = fn(): i32 { return g; };
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestLambdaOwnLocalsAreFine(t *testing.T) {
	const src = `
fn outer() {
	var l: fn(i32): i32 = fn(a: i32): i32 { var b: i32 = a; return b; };
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestDeferCannotContainReturn(t *testing.T) {
	errs := checkSrc(t, "fn test() { defer { return; } }")
	wantErrors(t, errs, 1, "Defer cannot contain return, break, or continue statements")
}

func TestDeferPlainStatementIsFine(t *testing.T) {
	const src = `
fn cleanup() {}
fn test() { defer cleanup(); }
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestPrivateFunctionAcrossFiles(t *testing.T) {
	const archive = `
-- a.truk --
fn a() {}
fn _hidden() {}
-- b.truk --
fn b() { a(); _hidden(); }
`
	errs := checkArchive(t, archive)
	wantErrors(t, errs, 1,
		"Cannot call private function '_hidden' from outside its defining file or shard")
}

func TestPrivateFunctionSameFile(t *testing.T) {
	const src = `
fn _hidden() {}
fn b() { _hidden(); }
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestPrivateFunctionSharedShard(t *testing.T) {
	const archive = `
-- a.truk --
shard core;
fn _hidden() {}
-- b.truk --
shard core;
fn b() { _hidden(); }
`
	wantErrors(t, checkArchive(t, archive), 0)
}

func TestMissingReturnValue(t *testing.T) {
	errs := checkSrc(t, "fn test(): i32 { return; }")
	wantErrors(t, errs, 1, "Function must return a value")
}

// ----------------------------------------------------------------------------
// Literals and numeric typing

func TestUntypedLiteralAdoptsTarget(t *testing.T) {
	const src = `
fn f() {
	var a: i64 = 42;
	var b: u8 = 7;
	var c: f32 = 1;
	var d: f64 = 2.5;
	var e: i64 = 1 + 2 * 3;
	var g: i64 = -3;
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestArithmeticRequiresEqualTypes(t *testing.T) {
	const src = `
fn f(a: i32, b: i64) {
	var c: i32 = a + b;
}
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1, "Cannot perform arithmetic on i32 and i64 (hint: use explicit cast)")
}

func TestArithmeticNonNumeric(t *testing.T) {
	errs := checkSrc(t, "fn f(a: bool) { var b: bool = a + true; }")
	wantErrors(t, errs, 1, "Arithmetic operation requires numeric types")
}

func TestLogicalRequiresBool(t *testing.T) {
	errs := checkSrc(t, "fn f(a: bool) { var b: bool = a && 1; }")
	wantErrors(t, errs, 1, "Logical operation requires boolean types")
}

func TestBitwiseTypeMismatch(t *testing.T) {
	errs := checkSrc(t, "fn f(a: u8, b: u16) { var c: u8 = a & b; }")
	wantErrors(t, errs, 1, "Bitwise operation type mismatch")
}

func TestBitwiseRequiresIntegers(t *testing.T) {
	errs := checkSrc(t, "fn f(a: f32) { var c: f32 = a << 1; }")
	wantErrors(t, errs, 1, "Bitwise operation requires integer types")
}

func TestComparisonMismatch(t *testing.T) {
	errs := checkSrc(t, "fn f(a: bool, b: i32) { var c: bool = a < b; }")
	wantErrors(t, errs, 1, "Cannot compare bool with i32")
}

func TestPointerComparesWithVoidPointer(t *testing.T) {
	const src = `
fn f(p: *i32, q: *void): bool {
	return p == q;
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestCastIsPermissive(t *testing.T) {
	const src = `
fn f(a: i32) {
	var b: u8 = a as u8;
	var c: f64 = a as f64;
	var p: *void = a as *void;
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

// ----------------------------------------------------------------------------
// Assignment and declarations

func TestAssignmentCrossWidthNumeric(t *testing.T) {
	// Cross-width numeric assignment is permitted at assignment
	// boundaries, never inside arithmetic operators.
	wantErrors(t, checkSrc(t, "fn f(a: i32, b: i64) { a = b; }"), 0)
}

func TestAssignmentTypeMismatch(t *testing.T) {
	errs := checkSrc(t, "fn f(a: i32, b: bool) { a = b; }")
	wantErrors(t, errs, 1, "Assignment type mismatch")
}

func TestStringPointerSignednessInterchange(t *testing.T) {
	const src = `
fn f(s: *i8, u: *u8) {
	s = u;
	u = s;
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestCompoundAssignmentDesugars(t *testing.T) {
	wantErrors(t, checkSrc(t, "fn f(a: i32) { a += 5; a *= 2; }"), 0)

	errs := checkSrc(t, "fn f(a: i32, b: i64) { a += b; }")
	wantErrors(t, errs, 1, "Cannot perform arithmetic on i32 and i64")
}

func TestUnknownVariableType(t *testing.T) {
	errs := checkSrc(t, "fn f() { var x: Widget = 1; }")
	wantErrors(t, errs, 1, "Unknown variable type: Widget")
}

func TestUnknownReturnType(t *testing.T) {
	errs := checkSrc(t, "fn f(): Widget {}")
	wantErrors(t, errs, 1, "Unknown return type: Widget")
}

func TestUnknownParameterType(t *testing.T) {
	errs := checkSrc(t, "fn f(w: Widget) {}")
	wantErrors(t, errs, -1, "Unknown parameter type: Widget")
}

func TestUndefinedIdentifier(t *testing.T) {
	errs := checkSrc(t, "fn f() { var x: i32 = y; }")
	wantErrors(t, errs, 1, "Undefined identifier: y")
}

func TestDuplicateDeclaration(t *testing.T) {
	errs := checkSrc(t, "fn f() {}\nfn f() {}")
	wantErrors(t, errs, -1, "Duplicate declaration of 'f'")
}

func TestConstInitializerMismatch(t *testing.T) {
	errs := checkSrc(t, "const C: i32 = true;")
	wantErrors(t, errs, 1, "Type mismatch in constant initialization")
}

func TestLetInference(t *testing.T) {
	const src = `
fn f() {
	let x = 5;
	var y: i32 = x;
	let s = "hi";
	var p: *u8 = s;
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestLetDestructuringRejected(t *testing.T) {
	const src = `
struct Point { x: i32, y: i32 }
fn f(p: Point) { let a, b = p; }
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1, "Cannot destructure non-tuple value")
}

// ----------------------------------------------------------------------------
// Functions and calls

func TestForwardReference(t *testing.T) {
	const src = `
fn caller(): i32 { return callee(2); }
fn callee(a: i32): i32 { return a; }
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestArgumentCountMismatch(t *testing.T) {
	const src = `
fn g(a: i32) {}
fn f() { g(); }
`
	wantErrors(t, checkSrc(t, src), 1, "Argument count mismatch")
}

func TestArgumentTypeMismatch(t *testing.T) {
	const src = `
fn g(a: i32) {}
fn f() { g(true); }
`
	wantErrors(t, checkSrc(t, src), 1, "Argument type mismatch")
}

func TestVariadicCalls(t *testing.T) {
	const src = `
fn v(a: i32, ...) {}
fn f() {
	v(1);
	v(1, 2, true, nil);
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestVariadicTooFewArguments(t *testing.T) {
	const src = `
fn v(a: i32, ...) {}
fn f() { v(); }
`
	wantErrors(t, checkSrc(t, src), 1, "Too few arguments for variadic function")
}

func TestCallTargetNotFunction(t *testing.T) {
	errs := checkSrc(t, "fn f(a: i32) { a(); }")
	wantErrors(t, errs, 1, "Call target is not a function")
}

func TestFunctionValueAssignment(t *testing.T) {
	const src = `
fn g(a: i32): i32 { return a; }
fn f() {
	var h: fn(i32): i32 = g;
	var r: i32 = h(3);
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestAddressOfFunctionRejected(t *testing.T) {
	const src = `
fn g() {}
fn f() { var p: *void = &g; }
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1, "Cannot take address of function/lambda (functions are already function pointers)")
}

func TestReturnTypeMismatch(t *testing.T) {
	errs := checkSrc(t, "fn f(): *u8 { return 1; }")
	wantErrors(t, errs, 1, "Return type mismatch")
}

// ----------------------------------------------------------------------------
// Pointers, indexing, member access

func TestDerefRequiresPointer(t *testing.T) {
	errs := checkSrc(t, "fn f(a: i32) { var b: i32 = *a; }")
	wantErrors(t, errs, 1, "Dereference requires pointer type")
}

func TestPointerRoundTrip(t *testing.T) {
	const src = `
fn f(x: i32) {
	var p: *i32 = &x;
	var pp: **i32 = &p;
	var v: i32 = *(*pp);
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestIndexing(t *testing.T) {
	const src = `
fn f(a: [3]i32, s: []i32, p: *i32): i32 {
	return a[0] + s[1] + p[2];
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestIndexMustBeInteger(t *testing.T) {
	errs := checkSrc(t, "fn f(a: [3]i32) { var v: i32 = a[true]; }")
	wantErrors(t, errs, 1, "Index must be integer type")
}

func TestIndexOnScalarRejected(t *testing.T) {
	errs := checkSrc(t, "fn f(a: i32) { var v: i32 = a[0]; }")
	wantErrors(t, errs, 1, "Index operation requires array, pointer, or map type")
}

func TestMemberAccess(t *testing.T) {
	const src = `
struct Vec2 { x: f32, y: f32 }
fn mag(v: Vec2): f32 { return v.x * v.x + v.y * v.y; }
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestMemberAccessOnNonStruct(t *testing.T) {
	errs := checkSrc(t, "fn f(a: i32) { var b: i32 = a.x; }")
	wantErrors(t, errs, 1, "Member access requires struct type")
}

func TestUnknownField(t *testing.T) {
	const src = `
struct Point { x: i32 }
fn f(p: Point) { var v: i32 = p.z; }
`
	wantErrors(t, checkSrc(t, src), 1, "Struct has no field: z")
}

func TestPrivateFieldAcrossFiles(t *testing.T) {
	const archive = `
-- a.truk --
struct Point { x: i32, _secret: i32 }
-- b.truk --
fn f(p: Point): i32 { return p._secret; }
`
	errs := checkArchive(t, archive)
	wantErrors(t, errs, 1,
		"Cannot access private field '_secret' of struct 'Point' from outside its defining file or shard")
}

func TestPrivateGlobalAcrossFiles(t *testing.T) {
	const archive = `
-- a.truk --
var _g: i32 = 1;
-- b.truk --
fn f(): i32 { return _g; }
`
	errs := checkArchive(t, archive)
	wantErrors(t, errs, 1,
		"Cannot access private global variable '_g' from outside its defining file or shard")
}

func TestStructsForwardReferenceEachOther(t *testing.T) {
	const src = `
struct A { b: *B }
struct B { a: *A }
fn f(a: A): *B { return a.b; }
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestStructLiterals(t *testing.T) {
	const src = `
struct Point { x: i32, y: i32 }
fn f(): Point { return Point{x: 1, y: 2}; }
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestStructLiteralFieldMismatch(t *testing.T) {
	const src = `
struct Point { x: i32 }
fn f(): Point { return Point{x: true}; }
`
	wantErrors(t, checkSrc(t, src), 1, "Field initializer type mismatch for: x")
}

func TestArrayLiteralInconsistent(t *testing.T) {
	errs := checkSrc(t, "fn f() { var a: [2]i32 = [1, true]; }")
	wantErrors(t, errs, 1, "Array literal elements have inconsistent types")
}

// ----------------------------------------------------------------------------
// Control flow

func TestConditionMustBeBool(t *testing.T) {
	wantErrors(t, checkSrc(t, "fn f() { if 1 { } }"), 1, "If condition must be boolean type")
	wantErrors(t, checkSrc(t, "fn f() { while 1 { } }"), 1, "While condition must be boolean type")
	wantErrors(t, checkSrc(t, "fn f() { for ; 1; { } }"), 1, "For condition must be boolean type")
}

func TestBreakOutsideLoop(t *testing.T) {
	wantErrors(t, checkSrc(t, "fn f() { break; }"), 1, "Break statement outside of loop")
	wantErrors(t, checkSrc(t, "fn f() { continue; }"), 1, "Continue statement outside of loop")
}

func TestLambdaCannotContainBreak(t *testing.T) {
	const src = `
fn f() {
	while true {
		var l: fn() = fn() { break; };
	}
}
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, -1, "Lambda cannot contain break or continue statements")
}

func TestDeferBreakAndContinueRejected(t *testing.T) {
	const src = `
fn f() {
	while true {
		defer { break; }
	}
}
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1, "Defer cannot contain return, break, or continue statements")

	const srcContinue = `
fn f() {
	while true {
		defer { continue; }
	}
}
`
	wantErrors(t, checkSrc(t, srcContinue), 1, "Defer cannot contain return, break, or continue statements")
}

func TestMatchPatternTypes(t *testing.T) {
	const src = `
fn f(x: i32) {
	match x {
		1 => { },
		2 => { },
		_ => { }
	}
}
`
	wantErrors(t, checkSrc(t, src), 0)

	errs := checkSrc(t, "fn f(x: i32) { match x { true => { } } }")
	wantErrors(t, errs, 1, "Match pattern type mismatch")
}

// ----------------------------------------------------------------------------
// Maps

func TestMapIndexYieldsValuePointer(t *testing.T) {
	const src = `
fn f(m: map[*u8, i32]): i32 {
	return *m["key"];
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestMapKeyMismatch(t *testing.T) {
	const src = `
fn f(m: map[i32, i32]) {
	var v: *i32 = m[true];
}
`
	wantErrors(t, checkSrc(t, src), 1, "Map key type mismatch")
}

func TestMapAssignment(t *testing.T) {
	const src = `
fn f(m: map[i32, *u8]) {
	m[1] = "value";
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestMapAssignmentValueMismatch(t *testing.T) {
	const src = `
fn f(m: map[i32, *u8]) {
	m[1] = true;
}
`
	wantErrors(t, checkSrc(t, src), 1, "Assignment type mismatch")
}

func TestInvalidMapKeyType(t *testing.T) {
	const src = `
struct Point { x: i32 }
fn f(m: map[Point, i32]) {}
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1, "Invalid map key type: Point. Keys must be primitives (integers, floats, bool) or string pointers (*u8, *i8)")
}

// ----------------------------------------------------------------------------
// Builtins

func TestMake(t *testing.T) {
	const src = `
struct Point { x: i32 }
fn f() {
	var p: *i32 = make(@i32);
	var q: *Point = make(@Point);
	var s: []i32 = make(@i32, 10);
	var m: map[i32, i32] = make(@map[i32, i32]);
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestMakeRequiresTypeParam(t *testing.T) {
	wantErrors(t, checkSrc(t, "fn f() { make(); }"), 1,
		"Builtin 'make' requires a type parameter")
	wantErrors(t, checkSrc(t, "fn f(x: i32) { make(x); }"), 1,
		"Builtin 'make' requires a type parameter (use @type syntax)")
}

func TestMakeCountMustBeU64(t *testing.T) {
	const src = `
fn f(n: i32) {
	var s: []i32 = make(@i32, n);
}
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, -1, "Builtin 'make' array count must be u64")
}

func TestDelete(t *testing.T) {
	const src = `
fn f(p: *i32, s: []i32, m: map[i32, i32]) {
	delete(p);
	delete(s);
	delete(m);
}
`
	wantErrors(t, checkSrc(t, src), 0)

	errs := checkSrc(t, "fn f(a: i32) { delete(a); }")
	wantErrors(t, errs, 1, "Builtin 'delete' requires pointer, array, or map type")
}

func TestLen(t *testing.T) {
	const src = `
fn f(s: []i32): u64 {
	return len(s);
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestSizeof(t *testing.T) {
	const src = `
struct Point { x: i32 }
fn f(): u64 { return sizeof(@Point); }
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestPanic(t *testing.T) {
	wantErrors(t, checkSrc(t, `fn f() { panic("boom"); }`), 0)
}

func TestVaArgReaders(t *testing.T) {
	const src = `
fn f(...) {
	var a: i32 = __TRUK_VA_ARG_I32();
	var b: i64 = __TRUK_VA_ARG_I64();
	var c: f64 = __TRUK_VA_ARG_F64();
	var p: *void = __TRUK_VA_ARG_PTR();
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestEachOverMap(t *testing.T) {
	const src = `
fn cb(k: i32, v: *i32, ctx: *void): bool { return true; }
fn f(m: map[i32, i32], c: *void) {
	each(m, c, cb);
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestEachOverSlice(t *testing.T) {
	const src = `
fn cb(e: *i32, ctx: *void): bool { return true; }
fn f(s: []i32, c: *void) {
	each(s, c, cb);
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestEachCallbackMustReturnBool(t *testing.T) {
	const src = `
fn cb(e: *i32, ctx: *void) {}
fn f(s: []i32, c: *void) { each(s, c, cb); }
`
	wantErrors(t, checkSrc(t, src), 1, "Callback to 'each' must return bool")
}

func TestEachKeyMismatch(t *testing.T) {
	const src = `
fn cb(k: u8, v: *i32, ctx: *void): bool { return true; }
fn f(m: map[i32, i32], c: *void) { each(m, c, cb); }
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1, "First parameter of 'each' callback must match map key type")
}

func TestEachContextMismatch(t *testing.T) {
	const src = `
fn cb(e: *i32, ctx: *void): bool { return true; }
fn f(s: []i32, c: i32) { each(s, c, cb); }
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1, "Last parameter of 'each' callback must match context type")
}

func TestEachCollectionKind(t *testing.T) {
	const src = `
fn cb(e: *i32, ctx: *void): bool { return true; }
fn f(a: i32, c: *void) { each(a, c, cb); }
`
	wantErrors(t, checkSrc(t, src), 1, "First argument to 'each' must be a map or slice")
}

// ----------------------------------------------------------------------------
// Enums

func TestEnumValueAccess(t *testing.T) {
	const src = `
enum Color : u8 { Red, Green = 3, Blue }
fn f() {
	var c: Color = Color.Red;
	var d: i32 = Color.Blue as i32;
}
`
	wantErrors(t, checkSrc(t, src), 0)
}

func TestEnumUnknownValue(t *testing.T) {
	const src = `
enum Color { Red }
fn f() { var c: Color = Color.Purple; }
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1, "Enum 'Color' has no value: Purple")
}

// ----------------------------------------------------------------------------
// Cascade suppression

func TestNoCascadeAfterFailedResolution(t *testing.T) {
	// A failed member access must not also produce arithmetic or
	// assignment diagnostics for the same subtree.
	const src = `
struct Node { value: i32, next: *Node }
fn f(c: *Node) {
	var s: i32 = 0;
	s = s + c.value;
}
`
	errs := checkSrc(t, src)
	wantErrors(t, errs, 1, "Cannot use '.' on pointer type")
}
