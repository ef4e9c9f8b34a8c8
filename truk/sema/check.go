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
	"truklang.org/go/truk/ast"
	"truklang.org/go/truk/errors"
	"truklang.org/go/truk/literal"
	"truklang.org/go/truk/memctx"
	"truklang.org/go/truk/token"
)

// The checker walks the AST after the collector has built the scope
// tree. Symbol and type tables live in a scoped memory stack; type
// entries are keyed with a "__type__" prefix alongside the symbols of
// the same scope. Expression checks return the resolved type of the
// expression, or nil when resolution failed; a nil type suppresses
// cascaded diagnostics for the enclosing subtree.
type checker struct {
	mem  *memctx.Stack[any]
	errs errors.List
	res  *collection

	currentFile   string
	currentReturn *Type
	inLoop        bool

	// inferred records the checker's output for let declarations.
	inferred map[*ast.LetDecl][]*Type

	// reportedKeys dedupes map-key diagnostics per use site.
	reportedKeys map[token.Pos]bool
}

func (c *checker) errorf(pos token.Pos, format string, args ...interface{}) {
	c.errs.AddNewf(pos, format, args...)
}

const typeKeyPrefix = "__type__"

func (c *checker) registerType(name string, t *Type) {
	c.mem.Set(typeKeyPrefix+name, t)
}

func (c *checker) lookupType(name string) *Type {
	v, ok := c.mem.Get(typeKeyPrefix+name, true)
	if !ok {
		return nil
	}
	return v.(*Type)
}

func (c *checker) registerSymbol(name string, t *Type, mutable bool, pos token.Pos) {
	c.mem.Set(name, &Symbol{Name: name, Type: t, Mutable: mutable, Pos: pos})
}

func (c *checker) lookupSymbol(name string) *Symbol {
	v, ok := c.mem.Get(name, true)
	if !ok {
		return nil
	}
	sym, ok := v.(*Symbol)
	if !ok {
		return nil
	}
	return sym
}

func (c *checker) registerBuiltins() {
	for name, t := range primitiveTypes {
		c.registerType(name, t)
	}
	for i := range builtinRegistry {
		b := &builtinRegistry[i]
		c.registerSymbol(b.name, &Type{
			Kind:        Function,
			Name:        b.name,
			Variadic:    b.variadic,
			Builtin:     true,
			BuiltinKind: b.kind,
		}, false, token.NoPos)
	}
}

// ----------------------------------------------------------------------------
// Untyped literal resolution and compatibility

// resolveUntyped coerces an untyped literal type against a target type:
// untyped integers adopt any numeric target (integer-to-float widening
// is permitted at the untyped stage); untyped floats adopt only float
// targets. With no usable target the defaults are i32 and f64.
func resolveUntyped(t, target *Type) *Type {
	if t == nil {
		return nil
	}
	if !t.IsUntyped() {
		return t
	}
	if target != nil && !target.IsUntyped() {
		if t.Kind == UntypedInt && isNumeric(target) {
			return target
		}
		if t.Kind == UntypedFloat && isFloat(target) {
			return target
		}
	}
	if t.Kind == UntypedInt {
		return primitiveTypes["i32"]
	}
	return primitiveTypes["f64"]
}

// compatible implements the target <- source legality rules. The
// cross-width numeric allowance is granted only at assignment, call
// argument, and return boundaries; initialization sites pass
// allowNumeric=false and require exact equality.
func compatible(target, source *Type, allowNumeric bool) bool {
	if target == nil || source == nil {
		return false
	}
	if equalTypes(target, source) {
		return true
	}
	if allowNumeric && isNumeric(target) && isNumeric(source) &&
		!target.IsUntyped() && !source.IsUntyped() {
		return true
	}
	if target.Kind == Pointer && source.Kind == Pointer {
		if target.Name == "void" || source.Name == "void" {
			return true
		}
		if (target.Name == "i8" && source.Name == "u8") ||
			(target.Name == "u8" && source.Name == "i8") {
			return true
		}
	}
	if target.Kind == Function && source.Kind == Function {
		if len(target.Params) != len(source.Params) {
			return false
		}
		for i := range target.Params {
			if !equalTypes(target.Params[i], source.Params[i]) {
				return false
			}
		}
		if !equalTypes(target.Result, source.Result) {
			return false
		}
		return target.Variadic == source.Variadic
	}
	return false
}

func (c *checker) assignable(target, source *Type) bool {
	return compatible(target, source, true)
}

func (c *checker) initAssignable(target, source *Type) bool {
	return compatible(target, source, false)
}

// privacyViolated reports whether the use of a private name defined in
// defFile is illegal from the current file: different file, and no
// shared shard tag.
func (c *checker) privacyViolated(defFile string) bool {
	return defFile != "" && defFile != c.currentFile &&
		!c.res.shardsShared(defFile, c.currentFile)
}

// ----------------------------------------------------------------------------
// Declarations

func (c *checker) checkFunc(n *ast.FuncDecl) {
	if n.Body == nil {
		return
	}

	ret := typeVoid
	if n.Result != nil {
		// An unresolvable return type was already diagnosed when the
		// signature was registered.
		ret = c.resolveType(n.Result)
		if ret == nil {
			return
		}
	}

	prevReturn, prevLoop := c.currentReturn, c.inLoop
	c.currentReturn, c.inLoop = ret, false

	c.mem.Push()
	for _, p := range n.Params {
		if p.Variadic() {
			continue
		}
		if pt := c.resolveType(p.Type); pt != nil {
			c.registerSymbol(p.Name.Name, pt, true, p.Name.NamePos)
		}
	}
	c.checkStmt(n.Body)
	c.mem.Pop()

	c.currentReturn, c.inLoop = prevReturn, prevLoop
}

func (c *checker) checkVarDecl(n *ast.VarDecl, global bool) {
	var varType *Type
	if global {
		sym := c.lookupSymbol(n.Name.Name)
		if sym == nil {
			return // the declared type did not resolve
		}
		varType = sym.Type
	} else {
		varType = c.resolveType(n.Type)
		if varType == nil {
			c.errorf(n.VarPos, "Unknown variable type: %s", typeExprString(n.Type))
			return
		}
	}

	if n.Extern {
		if n.Value != nil {
			c.errorf(n.VarPos, "extern var cannot have initializer")
		}
		if !global {
			c.registerSymbol(n.Name.Name, varType, false, n.Name.NamePos)
			// Extern declarations outlive their lexical scope.
			c.mem.DeferHoist(n.Name.Name)
		}
		return
	}

	if n.Value != nil {
		if vt := c.expr(n.Value); vt != nil {
			vt = resolveUntyped(vt, varType)
			if !c.initAssignable(varType, vt) {
				c.errorf(n.VarPos, "Type mismatch in variable initialization")
			}
		}
	}

	if !global {
		c.registerSymbol(n.Name.Name, varType, true, n.Name.NamePos)
	}
}

func (c *checker) checkConstDecl(n *ast.ConstDecl, global bool) {
	var constType *Type
	if global {
		sym := c.lookupSymbol(n.Name.Name)
		if sym == nil {
			return
		}
		constType = sym.Type
	} else {
		constType = c.resolveType(n.Type)
		if constType == nil {
			c.errorf(n.ConstPos, "Unknown constant type: %s", typeExprString(n.Type))
			return
		}
	}

	if vt := c.expr(n.Value); vt != nil {
		vt = resolveUntyped(vt, constType)
		if !c.initAssignable(constType, vt) {
			c.errorf(n.ConstPos, "Type mismatch in constant initialization")
		}
	}

	if !global {
		c.registerSymbol(n.Name.Name, constType, false, n.Name.NamePos)
	}
}

func (c *checker) checkLetDecl(n *ast.LetDecl) {
	vt := c.expr(n.Value)

	if n.IsDestructuring() {
		// Tuples exist only as surface syntax, so there is nothing a
		// destructuring let could consume.
		c.errorf(n.Let, "Cannot destructure non-tuple value")
	}

	if vt == nil {
		return
	}
	vt = resolveUntyped(vt, nil)
	for _, name := range n.Names {
		c.registerSymbol(name.Name, vt, true, name.NamePos)
	}
	types := make([]*Type, len(n.Names))
	for i := range types {
		types[i] = vt
	}
	c.inferred[n] = types
}

// ----------------------------------------------------------------------------
// Statements

func (c *checker) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case nil:

	case *ast.BlockStmt:
		c.mem.Push()
		for _, st := range n.List {
			c.checkStmt(st)
		}
		c.mem.Pop()

	case *ast.VarDecl:
		c.checkVarDecl(n, false)

	case *ast.ConstDecl:
		c.checkConstDecl(n, false)

	case *ast.LetDecl:
		c.checkLetDecl(n)

	case *ast.IfStmt:
		if t := c.expr(n.Cond); t != nil && !isBoolean(resolveUntyped(t, typeBool)) {
			c.errorf(n.Cond.Pos(), "If condition must be boolean type")
		}
		c.checkStmt(n.Body)
		c.checkStmt(n.Else)

	case *ast.WhileStmt:
		if t := c.expr(n.Cond); t != nil && !isBoolean(resolveUntyped(t, typeBool)) {
			c.errorf(n.Cond.Pos(), "While condition must be boolean type")
		}
		prev := c.inLoop
		c.inLoop = true
		c.checkStmt(n.Body)
		c.inLoop = prev

	case *ast.ForStmt:
		c.mem.Push()
		c.checkForInit(n.Init)
		if n.Cond != nil {
			if t := c.expr(n.Cond); t != nil && !isBoolean(resolveUntyped(t, typeBool)) {
				c.errorf(n.Cond.Pos(), "For condition must be boolean type")
			}
		}
		prev := c.inLoop
		c.inLoop = true
		c.checkStmt(n.Body)
		c.checkStmt(n.Post)
		c.inLoop = prev
		c.mem.Pop()

	case *ast.ReturnStmt:
		c.checkReturn(n)

	case *ast.BranchStmt:
		if !c.inLoop {
			if n.Tok == token.BREAK {
				c.errorf(n.TokPos, "Break statement outside of loop")
			} else {
				c.errorf(n.TokPos, "Continue statement outside of loop")
			}
		}

	case *ast.DeferStmt:
		if containsControlFlow(n.Body) {
			c.errorf(n.Defer, "Defer cannot contain return, break, or continue statements")
		}
		c.checkStmt(n.Body)

	case *ast.MatchStmt:
		st := c.expr(n.X)
		for _, cs := range n.Cases {
			if cs.Pattern != nil {
				pt := c.expr(cs.Pattern)
				pt = resolveUntyped(pt, st)
				if st != nil && pt != nil && !equalTypes(resolveUntyped(st, nil), pt) {
					c.errorf(cs.Pattern.Pos(), "Match pattern type mismatch")
				}
			}
			c.checkStmt(cs.Body)
		}

	case *ast.AssignStmt:
		c.checkAssign(n)

	case *ast.ExprStmt:
		c.expr(n.X)

	case *ast.BadStmt:
	}
}

// checkForInit handles the for-header init statement. An assignment to
// an undeclared plain identifier introduces the name into the header
// scope with the initializer's type.
func (c *checker) checkForInit(init ast.Stmt) {
	assign, ok := init.(*ast.AssignStmt)
	if !ok {
		c.checkStmt(init)
		return
	}
	target, ok := assign.Target.(*ast.Ident)
	if !ok || c.lookupSymbol(target.Name) != nil {
		c.checkStmt(init)
		return
	}
	vt := c.expr(assign.Value)
	if vt == nil {
		return
	}
	vt = resolveUntyped(vt, nil)
	c.registerSymbol(target.Name, vt, true, target.NamePos)
}

func (c *checker) checkReturn(n *ast.ReturnStmt) {
	if len(n.Results) == 0 {
		if c.currentReturn != nil && c.currentReturn.Kind != Void {
			c.errorf(n.Return, "Function must return a value")
		}
		return
	}

	t := c.expr(n.Results[0])
	for _, r := range n.Results[1:] {
		c.expr(r)
	}
	if len(n.Results) > 1 {
		c.errorf(n.Return, "Cannot return multiple values")
	}

	if c.currentReturn == nil || t == nil {
		return
	}
	t = resolveUntyped(t, c.currentReturn)
	if !c.assignable(c.currentReturn, t) {
		c.errorf(n.Return, "Return type mismatch")
	}
}

func (c *checker) checkAssign(n *ast.AssignStmt) {
	if idx, ok := n.Target.(*ast.IndexExpr); ok {
		ot := c.expr(idx.X)
		if ot == nil {
			c.expr(idx.Index)
			c.expr(n.Value)
			return
		}
		if ot.Kind == Map {
			it := c.expr(idx.Index)
			if it == nil {
				return
			}
			if !c.checkMapKey(it, ot, idx.Index.Pos()) {
				return
			}
			vt := c.expr(n.Value)
			if vt == nil || ot.Value == nil {
				return
			}
			vt = resolveUntyped(vt, ot.Value)
			if !c.assignable(ot.Value, vt) {
				c.errorf(n.TokPos, "Assignment type mismatch")
			}
			return
		}
		tt := c.indexWith(ot, idx)
		c.finishAssign(n, tt)
		return
	}

	tt := c.expr(n.Target)
	c.finishAssign(n, tt)
}

func (c *checker) finishAssign(n *ast.AssignStmt, tt *Type) {
	vt := c.expr(n.Value)
	if tt == nil || vt == nil {
		return
	}

	if op := n.Tok.CompoundOp(); op != token.ILLEGAL {
		// target op= value desugars to target = target op value.
		c.binaryOpTypes(op, tt, vt, n.TokPos)
		return
	}

	vt = resolveUntyped(vt, tt)
	if !c.assignable(tt, vt) {
		c.errorf(n.TokPos, "Assignment type mismatch")
	}
}

// ----------------------------------------------------------------------------
// Expressions

// expr resolves the type of an expression, reporting diagnostics along
// the way. A nil result means resolution failed (or the expression has
// no value); callers must not pile further errors onto a nil type.
func (c *checker) expr(e ast.Expr) *Type {
	switch n := e.(type) {
	case nil:
		return nil

	case *ast.BasicLit:
		switch n.Kind {
		case token.INT:
			return typeUntypedInt
		case token.FLOAT:
			return typeUntypedFloat
		case token.STRING:
			return stringType()
		case token.CHAR:
			return primitiveTypes["u8"]
		case token.TRUE, token.FALSE:
			return typeBool
		case token.NIL:
			return nilType()
		}
		return nil

	case *ast.Ident:
		sym := c.lookupSymbol(n.Name)
		if sym == nil {
			c.errorf(n.NamePos, "Undefined identifier: %s", n.Name)
			return nil
		}
		if ast.IsPrivate(n.Name) {
			if defFile := c.res.globalFile[n.Name]; c.privacyViolated(defFile) {
				c.errorf(n.NamePos,
					"Cannot access private global variable '%s' from outside its defining file or shard", n.Name)
				return nil
			}
		}
		return sym.Type

	case *ast.ParenExpr:
		return c.expr(n.X)

	case *ast.UnaryExpr:
		return c.unary(n)

	case *ast.BinaryExpr:
		lt := c.expr(n.X)
		rt := c.expr(n.Y)
		if lt == nil || rt == nil {
			return nil
		}
		return c.binaryOpTypes(n.Op, lt, rt, n.OpPos)

	case *ast.CastExpr:
		c.expr(n.X)
		t := c.resolveType(n.Target)
		if t == nil {
			c.errorf(n.AsPos, "Unknown type in cast: %s", typeExprString(n.Target))
			return nil
		}
		// Casts are unconditional; narrowing validation is deferred to
		// code generation.
		return t

	case *ast.CallExpr:
		return c.call(n)

	case *ast.IndexExpr:
		ot := c.expr(n.X)
		if ot == nil {
			c.expr(n.Index)
			return nil
		}
		return c.indexWith(ot, n)

	case *ast.SelectorExpr:
		return c.selector(n)

	case *ast.ArrayLit:
		return c.arrayLit(n)

	case *ast.StructLit:
		return c.structLit(n)

	case *ast.LambdaExpr:
		return c.lambda(n)

	case *ast.TypeParamExpr:
		// Only legal as the first argument of a builtin call; the
		// builtin validation consumes it directly.
		return nil

	case *ast.BadExpr:
		return nil
	}
	return nil
}

func (c *checker) unary(n *ast.UnaryExpr) *Type {
	t := c.expr(n.X)
	if t == nil {
		return nil
	}

	switch n.Op {
	case token.SUB:
		if !isNumeric(t) {
			c.errorf(n.OpPos, "Negation requires numeric type")
			return nil
		}
		return t // untyped operands stay untyped

	case token.NOT:
		if !isBoolean(t) {
			c.errorf(n.OpPos, "Logical NOT requires boolean type")
			return nil
		}
		return typeBool

	case token.TILDE:
		if !isInteger(t) {
			c.errorf(n.OpPos, "Bitwise NOT requires integer type")
			return nil
		}
		return t

	case token.AND:
		t = resolveUntyped(t, nil)
		if t.Kind == Function {
			c.errorf(n.OpPos, "Cannot take address of function/lambda (functions are already function pointers)")
			return nil
		}
		return pointerTo(t)

	case token.MUL:
		t = resolveUntyped(t, nil)
		if t.Kind != Pointer || t.PointerDepth == 0 {
			c.errorf(n.OpPos, "Dereference requires pointer type")
			return nil
		}
		return t.Pointee
	}
	return nil
}

func (c *checker) binaryOpTypes(op token.Token, lt, rt *Type, pos token.Pos) *Type {
	// Operations between two untyped literals stay untyped, so that
	// constant expressions still adopt the target type of the
	// surrounding context.
	if lt.IsUntyped() && rt.IsUntyped() {
		return c.untypedBinary(op, lt, rt, pos)
	}

	lt = resolveUntyped(lt, rt)
	rt = resolveUntyped(rt, lt)

	switch op {
	case token.ADD, token.SUB, token.MUL, token.QUO, token.REM:
		if !isNumeric(lt) || !isNumeric(rt) {
			c.errorf(pos, "Arithmetic operation requires numeric types")
			return nil
		}
		if !equalTypes(lt, rt) {
			c.errorf(pos, "Cannot perform arithmetic on %s and %s (hint: use explicit cast)", lt, rt)
			return nil
		}
		return lt

	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		if !isComparable(lt) || !isComparable(rt) {
			c.errorf(pos, "Comparison operation requires comparable types (numeric, bool, or pointer)")
			return nil
		}
		if !equalTypes(lt, rt) {
			switch {
			case isNumeric(lt) && isNumeric(rt):
				// cross-width numeric comparisons are allowed
			case lt.Kind == Pointer && rt.Kind == Pointer &&
				(lt.Name == "void" || rt.Name == "void"):
				// any pointer compares with *void
			default:
				c.errorf(pos, "Cannot compare %s with %s", lt, rt)
				return nil
			}
		}
		return typeBool

	case token.LAND, token.LOR:
		if !isBoolean(lt) || !isBoolean(rt) {
			c.errorf(pos, "Logical operation requires boolean types")
			return nil
		}
		return typeBool

	case token.AND, token.OR, token.XOR, token.SHL, token.SHR:
		if !isInteger(lt) || !isInteger(rt) {
			c.errorf(pos, "Bitwise operation requires integer types")
			return nil
		}
		if !equalTypes(lt, rt) {
			c.errorf(pos, "Bitwise operation type mismatch")
			return nil
		}
		return lt
	}
	return nil
}

func (c *checker) untypedBinary(op token.Token, lt, rt *Type, pos token.Pos) *Type {
	switch op {
	case token.ADD, token.SUB, token.MUL, token.QUO, token.REM:
		if lt.Kind == UntypedInt && rt.Kind == UntypedInt {
			return typeUntypedInt
		}
		return typeUntypedFloat

	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return typeBool

	case token.LAND, token.LOR:
		c.errorf(pos, "Logical operation requires boolean types")
		return nil

	case token.AND, token.OR, token.XOR, token.SHL, token.SHR:
		if lt.Kind == UntypedInt && rt.Kind == UntypedInt {
			return typeUntypedInt
		}
		c.errorf(pos, "Bitwise operation requires integer types")
		return nil
	}
	return nil
}

func (c *checker) call(n *ast.CallExpr) *Type {
	funcName := ""
	if id, ok := n.Fun.(*ast.Ident); ok {
		funcName = id.Name
	}

	ct := c.expr(n.Fun)
	if ct == nil {
		for _, a := range n.Args {
			c.expr(a)
		}
		return nil
	}
	if ct.Kind != Function {
		c.errorf(n.Fun.Pos(), "Call target is not a function")
		return nil
	}

	if funcName != "" && ast.IsPrivate(funcName) {
		if defFile := c.res.functionFile[funcName]; c.privacyViolated(defFile) {
			c.errorf(n.Fun.Pos(),
				"Cannot call private function '%s' from outside its defining file or shard", funcName)
			return nil
		}
	}

	if ct.Builtin {
		return c.builtinCall(n, ct)
	}

	minArgs := len(ct.Params)
	if ct.Variadic {
		if len(n.Args) < minArgs {
			c.errorf(n.Lparen, "Too few arguments for variadic function")
			return nil
		}
	} else if len(n.Args) != minArgs {
		c.errorf(n.Lparen, "Argument count mismatch")
		return nil
	}

	for i, arg := range n.Args {
		at := c.expr(arg)
		if i >= minArgs {
			// trailing variadic arguments are visited for diagnostics
			// but not checked against a declared type
			continue
		}
		if at == nil {
			continue
		}
		at = resolveUntyped(at, ct.Params[i])
		if !c.assignable(ct.Params[i], at) {
			c.errorf(arg.Pos(), "Argument type mismatch")
		}
	}

	return ct.Result
}

// indexWith resolves a[i] given the already-resolved type of a.
func (c *checker) indexWith(ot *Type, n *ast.IndexExpr) *Type {
	it := c.expr(n.Index)

	if ot.Kind == Map {
		if it == nil {
			return nil
		}
		if !c.checkMapKey(it, ot, n.Index.Pos()) {
			return nil
		}
		if ot.Value == nil {
			return nil
		}
		// Map indexing yields a pointer to the stored value.
		return pointerTo(ot.Value)
	}

	if it == nil {
		return nil
	}
	if it.Kind == UntypedInt {
		it = primitiveTypes["u64"]
	}
	if !isInteger(it) {
		c.errorf(n.Index.Pos(), "Index must be integer type")
		return nil
	}

	switch {
	case ot.Kind == Array:
		return ot.Elem
	case ot.Kind == Pointer && ot.PointerDepth > 0:
		return ot.Pointee
	}
	c.errorf(n.Lbrack, "Index operation requires array, pointer, or map type")
	return nil
}

// stringKeyCompatible allows the 1-byte signedness interchange between
// *u8 and *i8 map keys.
func stringKeyCompatible(idx, key *Type) bool {
	return idx != nil && key != nil &&
		idx.Kind == Pointer && key.Kind == Pointer &&
		idx.PointerDepth == 1 && key.PointerDepth == 1 &&
		((idx.Name == "i8" && key.Name == "u8") ||
			(idx.Name == "u8" && key.Name == "i8"))
}

func (c *checker) checkMapKey(it *Type, mapType *Type, pos token.Pos) bool {
	if mapType.Key == nil {
		return false
	}
	// A byte slice used as a key degrades to the string pointer form.
	if it.IsSlice() && it.Elem != nil && (it.Elem.Name == "i8" || it.Elem.Name == "u8") {
		it = stringType()
	}
	it = resolveUntyped(it, mapType.Key)
	if equalTypes(it, mapType.Key) || stringKeyCompatible(it, mapType.Key) {
		return true
	}
	c.errorf(pos, "Map key type mismatch: expected %s but got %s", mapType.Key, it)
	return false
}

func (c *checker) selector(n *ast.SelectorExpr) *Type {
	// A selector whose base names an enum type is an enum value access.
	if id, ok := n.X.(*ast.Ident); ok {
		if t := c.lookupType(id.Name); t.IsEnum() {
			if _, ok := t.EnumValues[n.Sel.Name]; !ok {
				c.errorf(n.Sel.NamePos, "Enum '%s' has no value: %s", t.Name, n.Sel.Name)
				return nil
			}
			return t
		}
	}

	t := c.expr(n.X)
	if t == nil {
		return nil
	}
	if t.Kind == Pointer {
		c.errorf(n.Sel.NamePos, "Cannot use '.' on pointer type, use '->' instead")
		return nil
	}
	if t.Kind != Struct {
		c.errorf(n.Sel.NamePos, "Member access requires struct type")
		return nil
	}

	fieldName := n.Sel.Name
	ft, ok := t.Fields[fieldName]
	if !ok {
		c.errorf(n.Sel.NamePos, "Struct has no field: %s", fieldName)
		return nil
	}

	if ast.IsPrivate(fieldName) {
		if defFile := c.res.structFile[t.Name]; c.privacyViolated(defFile) {
			c.errorf(n.Sel.NamePos,
				"Cannot access private field '%s' of struct '%s' from outside its defining file or shard",
				fieldName, t.Name)
			return nil
		}
	}

	return ft
}

func (c *checker) arrayLit(n *ast.ArrayLit) *Type {
	if len(n.Elts) == 0 {
		c.errorf(n.Lbrack, "Cannot infer type of empty array literal")
		return nil
	}

	elem := resolveUntyped(c.expr(n.Elts[0]), nil)
	if elem == nil {
		for _, el := range n.Elts[1:] {
			c.expr(el)
		}
		return nil
	}
	for _, el := range n.Elts[1:] {
		t := c.expr(el)
		if t != nil {
			t = resolveUntyped(t, elem)
		}
		if !equalTypes(elem, t) {
			c.errorf(el.Pos(), "Array literal elements have inconsistent types")
			return nil
		}
	}
	if elem == nil {
		return nil
	}

	size := uint64(len(n.Elts))
	entry := sliceOf(elem)
	entry.ArraySize = &size
	return entry
}

func (c *checker) structLit(n *ast.StructLit) *Type {
	t := c.lookupType(n.Name.Name)
	if t == nil || t.Kind != Struct {
		c.errorf(n.Name.NamePos, "Unknown struct type: %s", n.Name.Name)
		return nil
	}

	for _, f := range n.Fields {
		ft, ok := t.Fields[f.Name.Name]
		if !ok {
			c.errorf(f.Name.NamePos, "Struct has no field: %s", f.Name.Name)
			continue
		}
		if vt := c.expr(f.Value); vt != nil {
			vt = resolveUntyped(vt, ft)
			if !c.initAssignable(ft, vt) {
				c.errorf(f.Value.Pos(), "Field initializer type mismatch for: %s", f.Name.Name)
			}
		}
	}

	return t
}

func (c *checker) lambda(n *ast.LambdaExpr) *Type {
	ret := typeVoid
	if n.Result != nil {
		ret = c.resolveType(n.Result)
		if ret == nil {
			c.errorf(n.Fn, "Unknown return type in lambda: %s", typeExprString(n.Result))
			return nil
		}
	}

	lt := &Type{Kind: Function, Name: "<lambda>", Result: ret}
	for _, p := range n.Params {
		if p.Variadic() {
			lt.Variadic = true
			continue
		}
		pt := c.resolveType(p.Type)
		if pt == nil {
			c.errorf(p.Name.NamePos, "Unknown parameter type in lambda: %s", typeExprString(p.Type))
			continue
		}
		lt.Params = append(lt.Params, pt)
	}

	if containsBreakOrContinue(n.Body) {
		c.errorf(n.Fn, "Lambda cannot contain break or continue statements")
	}

	prevReturn := c.currentReturn
	c.currentReturn = ret

	c.mem.Push()
	for _, p := range n.Params {
		if p.Variadic() {
			continue
		}
		if pt := c.resolveType(p.Type); pt != nil {
			c.registerSymbol(p.Name.Name, pt, true, p.Name.NamePos)
		}
	}
	c.checkStmt(n.Body)
	c.mem.Pop()

	c.currentReturn = prevReturn
	return lt
}

// ----------------------------------------------------------------------------
// Builtins

func (c *checker) builtinCall(n *ast.CallExpr, ft *Type) *Type {
	switch ft.BuiltinKind {
	case BuiltinMake:
		return c.builtinMake(n)
	case BuiltinDelete:
		return c.builtinDelete(n)
	case BuiltinEach:
		return c.builtinEach(n)
	}

	b := lookupBuiltin(ft.Name)
	if b == nil || b.signature == nil {
		return nil
	}

	start := 0
	var typeParam *Type
	if b.takesTypeParam {
		if len(n.Args) == 0 {
			c.errorf(n.Lparen, "Builtin '%s' requires a type parameter", b.name)
			return nil
		}
		tp, ok := n.Args[0].(*ast.TypeParamExpr)
		if !ok {
			c.errorf(n.Args[0].Pos(), "Builtin '%s' requires a type parameter (use @type syntax)", b.name)
			return nil
		}
		typeParam = c.resolveType(tp.Type)
		start = 1
	}

	sig := b.signature(typeParam)
	expected := len(sig.Params)
	actual := len(n.Args) - start

	if b.variadic {
		if actual < expected {
			c.errorf(n.Lparen, "Builtin '%s' expects at least %d argument(s) but got %d", b.name, expected, actual)
			return nil
		}
	} else if actual != expected {
		c.errorf(n.Lparen, "Builtin '%s' expects %d argument(s) but got %d", b.name, expected, actual)
		return nil
	}

	for i := 0; i < expected; i++ {
		at := c.expr(n.Args[start+i])
		if at == nil {
			continue
		}
		want := sig.Params[i]
		at = resolveUntyped(at, want)
		if !c.builtinArgMatches(want, at) {
			c.errorf(n.Args[start+i].Pos(), "Argument type mismatch in builtin '%s'", b.name)
		}
	}
	for i := start + expected; i < len(n.Args); i++ {
		c.expr(n.Args[i])
	}

	return sig.Result
}

// builtinArgMatches applies the loose matching used by builtin
// signatures: *void accepts any pointer, and a void-element array
// accepts any array of the same sizedness.
func (c *checker) builtinArgMatches(want, got *Type) bool {
	if equalTypes(want, got) {
		return true
	}
	if want.Kind == Pointer && want.Name == "void" && got.Kind == Pointer {
		return true
	}
	if want.Kind == Array && want.Elem != nil && want.Elem.Name == "void" &&
		got.Kind == Array && equalSizes(want.ArraySize, got.ArraySize) {
		return true
	}
	return false
}

func (c *checker) builtinMake(n *ast.CallExpr) *Type {
	if len(n.Args) == 0 {
		c.errorf(n.Lparen, "Builtin 'make' requires a type parameter")
		return nil
	}
	tp, ok := n.Args[0].(*ast.TypeParamExpr)
	if !ok {
		c.errorf(n.Args[0].Pos(), "Builtin 'make' requires a type parameter (use @type syntax)")
		return nil
	}

	switch len(n.Args) - 1 {
	case 0:
		resolved := c.resolveType(tp.Type)
		if resolved == nil {
			c.errorf(n.Args[0].Pos(), "Failed to resolve type for make")
			return nil
		}
		if resolved.Kind == Map {
			// make(@Map[K, V]) returns the map itself, no pointer wrap.
			return resolved
		}
		return pointerTo(resolved)

	case 1:
		count := c.expr(n.Args[1])
		count = resolveUntyped(count, primitiveTypes["u64"])
		if count == nil || count.Kind != Primitive || count.Name != "u64" {
			c.errorf(n.Args[1].Pos(), "Builtin 'make' array count must be u64")
			return nil
		}
		elem := c.resolveType(tp.Type)
		if elem == nil {
			c.errorf(n.Args[0].Pos(), "Failed to resolve element type for make")
			return nil
		}
		return sliceOf(elem)
	}

	c.errorf(n.Lparen, "Builtin 'make' expects 1 or 2 arguments (type parameter + optional count)")
	return nil
}

func (c *checker) builtinDelete(n *ast.CallExpr) *Type {
	if len(n.Args) != 1 {
		c.errorf(n.Lparen, "Builtin 'delete' expects 1 argument")
		return nil
	}
	at := c.expr(n.Args[0])
	if at == nil {
		return nil
	}
	if at.Kind != Pointer && at.Kind != Array && at.Kind != Map {
		c.errorf(n.Args[0].Pos(), "Builtin 'delete' requires pointer, array, or map type")
		return nil
	}
	return typeVoid
}

func (c *checker) builtinEach(n *ast.CallExpr) *Type {
	if len(n.Args) != 3 {
		c.errorf(n.Lparen, "Builtin 'each' expects 3 arguments (collection, context, and callback)")
		return nil
	}

	coll := c.expr(n.Args[0])
	if coll == nil {
		c.expr(n.Args[1])
		c.expr(n.Args[2])
		return nil
	}
	isMap := coll.Kind == Map
	isSlice := coll.IsSlice()
	if !isMap && !isSlice {
		c.errorf(n.Args[0].Pos(), "First argument to 'each' must be a map or slice")
		return nil
	}

	ctx := c.expr(n.Args[1])

	cb := c.expr(n.Args[2])
	if cb == nil || cb.Kind != Function {
		c.errorf(n.Args[2].Pos(), "Third argument to 'each' must be a function")
		return nil
	}
	if cb.Result == nil || !isBoolean(cb.Result) {
		c.errorf(n.Args[2].Pos(), "Callback to 'each' must return bool")
		return nil
	}

	if isMap {
		if len(cb.Params) != 3 {
			c.errorf(n.Args[2].Pos(), "Callback to 'each' for map must take 3 parameters (key, value pointer, and context)")
			return nil
		}
		if coll.Key == nil {
			return nil
		}
		if !equalTypes(cb.Params[0], coll.Key) {
			c.errorf(n.Args[2].Pos(),
				"First parameter of 'each' callback must match map key type: %s but got %s",
				coll.Key, cb.Params[0])
			return nil
		}
		valueParam := cb.Params[1]
		if valueParam == nil || valueParam.Kind != Pointer {
			c.errorf(n.Args[2].Pos(), "Second parameter of 'each' callback for map must be a pointer (value)")
			return nil
		}
		if coll.Value != nil {
			// The value arrives wrapped in one extra pointer level.
			if !equalTypes(valueParam, pointerTo(coll.Value)) {
				c.errorf(n.Args[2].Pos(), "Second parameter of 'each' callback must match map value type")
				return nil
			}
		}
	} else {
		if len(cb.Params) != 2 {
			c.errorf(n.Args[2].Pos(), "Callback to 'each' for slice must take 2 parameters (element pointer and context)")
			return nil
		}
		elemParam := cb.Params[0]
		if elemParam == nil || elemParam.Kind != Pointer {
			c.errorf(n.Args[2].Pos(), "First parameter of 'each' callback for slice must be a pointer (element)")
			return nil
		}
		if coll.Elem != nil {
			if !equalTypes(elemParam, pointerTo(coll.Elem)) {
				c.errorf(n.Args[2].Pos(), "First parameter of 'each' callback must match slice element type")
				return nil
			}
		}
	}

	last := cb.Params[len(cb.Params)-1]
	if ctx == nil || !equalTypes(last, resolveUntyped(ctx, last)) {
		c.errorf(n.Args[1].Pos(), "Last parameter of 'each' callback must match context type")
		return nil
	}

	return typeVoid
}

// ----------------------------------------------------------------------------
// Enum parsing help

func enumValueOf(v *ast.EnumValue) (int64, bool) {
	lit, ok := v.Value.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, false
	}
	i, err := literal.Int64(lit.Value)
	if err != nil {
		return 0, false
	}
	return i, true
}
