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

// Package ast declares the types used to represent syntax trees for Truk
// source files.
package ast // import "truklang.org/go/truk/ast"

import (
	"truklang.org/go/truk/token"
)

// ----------------------------------------------------------------------------
// Interfaces
//
// There are four main classes of nodes: declarations, statements,
// expressions, and type expressions. The node fields correspond to the
// individual parts of the respective productions.
//
// All nodes contain position information marking the beginning of the
// corresponding source text segment; it is accessible via the Pos
// accessor method.

// A Node represents any node in the abstract syntax tree.
type Node interface {
	Pos() token.Pos // position of first character belonging to the node
	End() token.Pos // position of first character immediately after the node
}

// An Expr is implemented by all expression nodes.
type Expr interface {
	Node
	exprNode()
}

// A Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// A Decl is implemented by all declaration nodes.
type Decl interface {
	Node
	declNode()
}

// A Type is implemented by all type-expression nodes.
type Type interface {
	Node
	typeNode()
}

func (*BadExpr) exprNode()       {}
func (*Ident) exprNode()         {}
func (*BasicLit) exprNode()      {}
func (*ParenExpr) exprNode()     {}
func (*SelectorExpr) exprNode()  {}
func (*IndexExpr) exprNode()     {}
func (*CallExpr) exprNode()      {}
func (*UnaryExpr) exprNode()     {}
func (*BinaryExpr) exprNode()    {}
func (*CastExpr) exprNode()      {}
func (*ArrayLit) exprNode()      {}
func (*StructLit) exprNode()     {}
func (*LambdaExpr) exprNode()    {}
func (*TypeParamExpr) exprNode() {}

func (*BadStmt) stmtNode()    {}
func (*BlockStmt) stmtNode()  {}
func (*IfStmt) stmtNode()     {}
func (*WhileStmt) stmtNode()  {}
func (*ForStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode() {}
func (*BranchStmt) stmtNode() {}
func (*DeferStmt) stmtNode()  {}
func (*MatchStmt) stmtNode()  {}
func (*AssignStmt) stmtNode() {}
func (*ExprStmt) stmtNode()   {}
func (*VarDecl) stmtNode()    {}
func (*ConstDecl) stmtNode()  {}
func (*LetDecl) stmtNode()    {}

func (*BadDecl) declNode()     {}
func (*FuncDecl) declNode()    {}
func (*StructDecl) declNode()  {}
func (*EnumDecl) declNode()    {}
func (*VarDecl) declNode()     {}
func (*ConstDecl) declNode()   {}
func (*ImportDecl) declNode()  {}
func (*CImportDecl) declNode() {}
func (*ShardDecl) declNode()   {}

func (*PrimitiveType) typeNode() {}
func (*NamedType) typeNode()     {}
func (*GenericType) typeNode()   {}
func (*PointerType) typeNode()   {}
func (*ArrayType) typeNode()     {}
func (*FuncType) typeNode()      {}
func (*MapType) typeNode()       {}
func (*TupleType) typeNode()     {}

// ----------------------------------------------------------------------------
// Expressions

// A BadExpr node is a placeholder for expressions containing syntax
// errors for which no correct expression nodes can be created.
type BadExpr struct {
	From, To token.Pos // position range of bad expression
}

// An Ident node represents an identifier.
type Ident struct {
	NamePos token.Pos // identifier position
	Name    string
}

// A BasicLit node represents a literal of basic type.
// Kind is one of INT, FLOAT, STRING, CHAR, TRUE, FALSE, or NIL.
type BasicLit struct {
	ValuePos token.Pos   // literal position
	Kind     token.Token // INT, FLOAT, STRING, CHAR, TRUE, FALSE, NIL
	Value    string      // literal string; e.g. 42, 0x7f, 3.14, "foo"
}

// A ParenExpr node represents a parenthesized expression.
type ParenExpr struct {
	Lparen token.Pos // position of "("
	X      Expr      // parenthesized expression
	Rparen token.Pos // position of ")"
}

// A SelectorExpr node represents an expression followed by a field
// selector. The checker reinterprets a selector whose base names an enum
// type as an enum value access.
type SelectorExpr struct {
	X   Expr   // expression
	Sel *Ident // field selector
}

// An IndexExpr node represents an expression followed by an index.
type IndexExpr struct {
	X      Expr      // expression
	Lbrack token.Pos // position of "["
	Index  Expr      // index expression
	Rbrack token.Pos // position of "]"
}

// A CallExpr node represents an expression followed by an argument list.
type CallExpr struct {
	Fun    Expr      // function expression
	Lparen token.Pos // position of "("
	Args   []Expr    // function arguments; or nil
	Rparen token.Pos // position of ")"
}

// A UnaryExpr node represents a unary expression: one of - ! ~ & *.
type UnaryExpr struct {
	OpPos token.Pos   // position of Op
	Op    token.Token // operator
	X     Expr        // operand
}

// A BinaryExpr node represents a binary expression.
type BinaryExpr struct {
	X     Expr        // left operand
	OpPos token.Pos   // position of Op
	Op    token.Token // operator
	Y     Expr        // right operand
}

// A CastExpr node represents "expr as Type".
type CastExpr struct {
	X      Expr      // operand
	AsPos  token.Pos // position of "as"
	Target Type      // target type
}

// An ArrayLit node represents an array literal "[e1, e2, ...]".
type ArrayLit struct {
	Lbrack token.Pos // position of "["
	Elts   []Expr    // array elements
	Rbrack token.Pos // position of "]"
}

// A FieldValue node represents a single "name: value" entry of a struct
// literal.
type FieldValue struct {
	Name  *Ident
	Colon token.Pos // position of ":"
	Value Expr
}

func (f *FieldValue) Pos() token.Pos { return f.Name.Pos() }
func (f *FieldValue) End() token.Pos { return f.Value.End() }

// A StructLit node represents "Name{f1: e1, ...}", optionally with type
// arguments "Name[T1, ...]{...}". Type arguments are surface syntax
// only.
type StructLit struct {
	Name     *Ident
	TypeArgs []Type // type arguments; or nil
	Lbrace   token.Pos
	Fields   []*FieldValue
	Rbrace   token.Pos
}

// A Param node represents a single function or lambda parameter. A
// parameter spelled "..." marks the function variadic and has a nil Name
// and Type.
type Param struct {
	Name     *Ident // nil for the "..." parameter
	Type     Type   // nil for the "..." parameter
	Ellipsis token.Pos
}

func (p *Param) Pos() token.Pos {
	if p.Name != nil {
		return p.Name.Pos()
	}
	return p.Ellipsis
}

func (p *Param) End() token.Pos {
	if p.Type != nil {
		return p.Type.End()
	}
	return p.Ellipsis.Add(len("..."))
}

// Variadic reports whether p is the trailing "..." parameter.
func (p *Param) Variadic() bool { return p.Name == nil }

// A LambdaExpr node represents an anonymous function expression
// "fn(params): type { ... }". Lambdas must not capture enclosing
// non-global bindings.
type LambdaExpr struct {
	Fn     token.Pos // position of "fn"
	Params []*Param
	Result Type // nil means void
	Body   *BlockStmt
}

// A TypeParamExpr node represents the "@Type" form, legal only as the
// first argument of a builtin call.
type TypeParamExpr struct {
	At   token.Pos // position of "@"
	Type Type
}

func (x *BadExpr) Pos() token.Pos       { return x.From }
func (x *Ident) Pos() token.Pos         { return x.NamePos }
func (x *BasicLit) Pos() token.Pos      { return x.ValuePos }
func (x *ParenExpr) Pos() token.Pos     { return x.Lparen }
func (x *SelectorExpr) Pos() token.Pos  { return x.X.Pos() }
func (x *IndexExpr) Pos() token.Pos     { return x.X.Pos() }
func (x *CallExpr) Pos() token.Pos      { return x.Fun.Pos() }
func (x *UnaryExpr) Pos() token.Pos     { return x.OpPos }
func (x *BinaryExpr) Pos() token.Pos    { return x.X.Pos() }
func (x *CastExpr) Pos() token.Pos      { return x.X.Pos() }
func (x *ArrayLit) Pos() token.Pos      { return x.Lbrack }
func (x *StructLit) Pos() token.Pos     { return x.Name.Pos() }
func (x *LambdaExpr) Pos() token.Pos    { return x.Fn }
func (x *TypeParamExpr) Pos() token.Pos { return x.At }

func (x *BadExpr) End() token.Pos      { return x.To }
func (x *Ident) End() token.Pos        { return x.NamePos.Add(len(x.Name)) }
func (x *BasicLit) End() token.Pos     { return x.ValuePos.Add(len(x.Value)) }
func (x *ParenExpr) End() token.Pos    { return x.Rparen.Add(1) }
func (x *SelectorExpr) End() token.Pos { return x.Sel.End() }
func (x *IndexExpr) End() token.Pos    { return x.Rbrack.Add(1) }
func (x *CallExpr) End() token.Pos     { return x.Rparen.Add(1) }
func (x *UnaryExpr) End() token.Pos    { return x.X.End() }
func (x *BinaryExpr) End() token.Pos   { return x.Y.End() }
func (x *CastExpr) End() token.Pos     { return x.Target.End() }
func (x *ArrayLit) End() token.Pos     { return x.Rbrack.Add(1) }
func (x *StructLit) End() token.Pos    { return x.Rbrace.Add(1) }
func (x *LambdaExpr) End() token.Pos   { return x.Body.End() }
func (x *TypeParamExpr) End() token.Pos {
	return x.Type.End()
}

func (id *Ident) String() string {
	if id != nil {
		return id.Name
	}
	return "<nil>"
}

// IsPrivate reports whether name follows the private-by-underscore
// convention.
func IsPrivate(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

// ----------------------------------------------------------------------------
// Type expressions

// A PrimitiveType node represents one of the built-in primitive type
// keywords.
type PrimitiveType struct {
	TypePos token.Pos
	Kind    token.Token // I8 ... VOID
}

// A NamedType node represents a reference to a user-declared struct or
// enum type.
type NamedType struct {
	Name *Ident
}

// A GenericType node represents "Name[T1, ...]". Type arguments are
// surface syntax; resolution uses the base name.
type GenericType struct {
	Name   *Ident
	Lbrack token.Pos
	Args   []Type
	Rbrack token.Pos
}

// A PointerType node represents "*Base".
type PointerType struct {
	Star token.Pos // position of "*"
	Base Type
}

// An ArrayType node represents "[N]Elem" (sized) or "[]Elem" (slice).
type ArrayType struct {
	Lbrack token.Pos // position of "["
	Size   Expr      // nil means unsized (slice)
	Elem   Type
}

// A FuncType node represents "fn(T1, ...): R".
type FuncType struct {
	Fn       token.Pos // position of "fn"
	Params   []Type
	Result   Type // nil means void
	Variadic bool
	EndPos   token.Pos // position just after the type
}

// A MapType node represents "map[Key, Value]".
type MapType struct {
	MapPos token.Pos // position of "map"
	Key    Type
	Value  Type
	Rbrack token.Pos
}

// A TupleType node represents "(T1, T2, ...)". Tuples are surface syntax
// only; they have no resolved-type counterpart.
type TupleType struct {
	Lparen token.Pos
	Elems  []Type
	Rparen token.Pos
}

func (t *PrimitiveType) Pos() token.Pos { return t.TypePos }
func (t *NamedType) Pos() token.Pos     { return t.Name.Pos() }
func (t *GenericType) Pos() token.Pos   { return t.Name.Pos() }
func (t *PointerType) Pos() token.Pos   { return t.Star }
func (t *ArrayType) Pos() token.Pos     { return t.Lbrack }
func (t *FuncType) Pos() token.Pos      { return t.Fn }
func (t *MapType) Pos() token.Pos       { return t.MapPos }
func (t *TupleType) Pos() token.Pos     { return t.Lparen }

func (t *PrimitiveType) End() token.Pos { return t.TypePos.Add(len(t.Kind.String())) }
func (t *NamedType) End() token.Pos     { return t.Name.End() }
func (t *GenericType) End() token.Pos   { return t.Rbrack.Add(1) }
func (t *PointerType) End() token.Pos   { return t.Base.End() }
func (t *ArrayType) End() token.Pos     { return t.Elem.End() }
func (t *FuncType) End() token.Pos      { return t.EndPos }
func (t *MapType) End() token.Pos       { return t.Rbrack.Add(1) }
func (t *TupleType) End() token.Pos     { return t.Rparen.Add(1) }

// ----------------------------------------------------------------------------
// Statements

// A BadStmt node is a placeholder for statements containing syntax
// errors for which no correct statement nodes can be created.
type BadStmt struct {
	From, To token.Pos
}

// A BlockStmt node represents a braced statement list.
type BlockStmt struct {
	Lbrace token.Pos // position of "{"
	List   []Stmt
	Rbrace token.Pos // position of "}"
}

// An IfStmt node represents an if statement. Else is nil, another
// *IfStmt ("else if"), or a *BlockStmt.
type IfStmt struct {
	If   token.Pos // position of "if"
	Cond Expr
	Body *BlockStmt
	Else Stmt // nil, *IfStmt, or *BlockStmt
}

// A WhileStmt node represents a while loop.
type WhileStmt struct {
	While token.Pos // position of "while"
	Cond  Expr
	Body  *BlockStmt
}

// A ForStmt node represents a C-style for loop. All three header parts
// are optional.
type ForStmt struct {
	For  token.Pos // position of "for"
	Init Stmt      // nil, *VarDecl, *LetDecl, *AssignStmt, or *ExprStmt
	Cond Expr      // or nil
	Post Stmt      // nil, *AssignStmt, or *ExprStmt
	Body *BlockStmt
}

// A ReturnStmt node represents a return statement with zero, one, or
// many result expressions.
type ReturnStmt struct {
	Return  token.Pos // position of "return"
	Results []Expr    // or nil
	EndPos  token.Pos // position of ";"
}

// A BranchStmt node represents a break or continue statement.
type BranchStmt struct {
	TokPos token.Pos
	Tok    token.Token // BREAK or CONTINUE
}

// A DeferStmt node represents a defer statement. The checker forbids
// return, break, and continue anywhere inside Body.
type DeferStmt struct {
	Defer token.Pos // position of "defer"
	Body  Stmt
}

// A MatchCase is a single "pattern => body" arm. A nil Pattern is the
// "_" wildcard.
type MatchCase struct {
	CasePos token.Pos
	Pattern Expr // nil for the wildcard "_"
	Arrow   token.Pos
	Body    Stmt
}

func (c *MatchCase) Pos() token.Pos { return c.CasePos }
func (c *MatchCase) End() token.Pos { return c.Body.End() }

// A MatchStmt node represents a match statement over a scrutinee.
type MatchStmt struct {
	Match  token.Pos // position of "match"
	X      Expr      // scrutinee
	Lbrace token.Pos
	Cases  []*MatchCase
	Rbrace token.Pos
}

// An AssignStmt node represents "target = value" or a compound
// assignment. Compound forms desugar at check time.
type AssignStmt struct {
	Target Expr
	TokPos token.Pos
	Tok    token.Token // ASSIGN, ADD_ASSIGN, ...
	Value  Expr
}

// An ExprStmt node represents a (stand-alone) expression in a statement
// list.
type ExprStmt struct {
	X Expr
}

func (s *BadStmt) Pos() token.Pos    { return s.From }
func (s *BlockStmt) Pos() token.Pos  { return s.Lbrace }
func (s *IfStmt) Pos() token.Pos     { return s.If }
func (s *WhileStmt) Pos() token.Pos  { return s.While }
func (s *ForStmt) Pos() token.Pos    { return s.For }
func (s *ReturnStmt) Pos() token.Pos { return s.Return }
func (s *BranchStmt) Pos() token.Pos { return s.TokPos }
func (s *DeferStmt) Pos() token.Pos  { return s.Defer }
func (s *MatchStmt) Pos() token.Pos  { return s.Match }
func (s *AssignStmt) Pos() token.Pos { return s.Target.Pos() }
func (s *ExprStmt) Pos() token.Pos   { return s.X.Pos() }

func (s *BadStmt) End() token.Pos   { return s.To }
func (s *BlockStmt) End() token.Pos { return s.Rbrace.Add(1) }
func (s *IfStmt) End() token.Pos {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Body.End()
}
func (s *WhileStmt) End() token.Pos { return s.Body.End() }
func (s *ForStmt) End() token.Pos   { return s.Body.End() }
func (s *ReturnStmt) End() token.Pos {
	if s.EndPos.IsValid() {
		return s.EndPos.Add(1)
	}
	if n := len(s.Results); n > 0 {
		return s.Results[n-1].End()
	}
	return s.Return.Add(len("return"))
}
func (s *BranchStmt) End() token.Pos { return s.TokPos.Add(len(s.Tok.String())) }
func (s *DeferStmt) End() token.Pos  { return s.Body.End() }
func (s *MatchStmt) End() token.Pos  { return s.Rbrace.Add(1) }
func (s *AssignStmt) End() token.Pos { return s.Value.End() }
func (s *ExprStmt) End() token.Pos   { return s.X.End() }

// ----------------------------------------------------------------------------
// Declarations

// A BadDecl node is a placeholder for declarations containing syntax
// errors for which no correct declaration nodes can be created.
type BadDecl struct {
	From, To token.Pos
}

// A FuncDecl node represents a function declaration. Body is nil for
// extern functions.
type FuncDecl struct {
	Fn     token.Pos // position of "fn"
	Name   *Ident
	Params []*Param
	Result Type // nil means void
	Body   *BlockStmt
	Extern bool
	EndPos token.Pos // end of an extern declaration's ";"
}

// Variadic reports whether the declaration has a trailing "..."
// parameter.
func (d *FuncDecl) Variadic() bool {
	for _, p := range d.Params {
		if p.Variadic() {
			return true
		}
	}
	return false
}

// A Field node represents a single struct field declaration.
type Field struct {
	Name *Ident
	Type Type
}

func (f *Field) Pos() token.Pos { return f.Name.Pos() }
func (f *Field) End() token.Pos { return f.Type.End() }

// A StructDecl node represents a struct declaration.
type StructDecl struct {
	Struct     token.Pos // position of "struct"
	Name       *Ident
	TypeParams []*Ident // generic parameters; surface syntax only
	Fields     []*Field
	Rbrace     token.Pos
	Extern     bool
}

// IsGeneric reports whether the struct declares type parameters.
func (d *StructDecl) IsGeneric() bool { return len(d.TypeParams) > 0 }

// An EnumValue node is a single enumerator, optionally with an explicit
// value.
type EnumValue struct {
	Name  *Ident
	Value Expr // or nil
}

func (v *EnumValue) Pos() token.Pos { return v.Name.Pos() }
func (v *EnumValue) End() token.Pos {
	if v.Value != nil {
		return v.Value.End()
	}
	return v.Name.End()
}

// An EnumDecl node represents an enum declaration. Backing is nil when
// the backing type is elided (i32).
type EnumDecl struct {
	Enum    token.Pos // position of "enum"
	Name    *Ident
	Backing Type // or nil
	Values  []*EnumValue
	Rbrace  token.Pos
	Extern  bool
}

// A VarDecl node represents a mutable variable declaration. It appears
// both at the top level and in statement position.
type VarDecl struct {
	VarPos token.Pos // position of "var"
	Name   *Ident
	Type   Type
	Value  Expr // or nil
	Extern bool
	EndPos token.Pos // position of ";"
}

// A ConstDecl node represents an immutable constant declaration.
type ConstDecl struct {
	ConstPos token.Pos // position of "const"
	Name     *Ident
	Type     Type
	Value    Expr
	EndPos   token.Pos // position of ";"
}

// A LetDecl node represents a let declaration with inferred types. More
// than one name is a destructuring form.
type LetDecl struct {
	Let    token.Pos // position of "let"
	Names  []*Ident
	Value  Expr
	EndPos token.Pos // position of ";"
}

// IsDestructuring reports whether the let binds more than one name.
func (d *LetDecl) IsDestructuring() bool { return len(d.Names) > 1 }

// An ImportDecl node represents `import "path";`.
type ImportDecl struct {
	Import token.Pos
	Path   *BasicLit
	EndPos token.Pos
}

// A CImportDecl node represents `cimport "path";` or `cimport <path>;`.
type CImportDecl struct {
	Cimport token.Pos
	Path    string
	PathPos token.Pos
	Angle   bool // <path> rather than "path"
	EndPos  token.Pos
}

// A ShardDecl node attaches a shard tag to the enclosing file, granting
// mutual access to otherwise-private symbols of files sharing the tag.
type ShardDecl struct {
	Shard  token.Pos
	Name   *Ident
	EndPos token.Pos
}

func (d *BadDecl) Pos() token.Pos     { return d.From }
func (d *FuncDecl) Pos() token.Pos    { return d.Fn }
func (d *StructDecl) Pos() token.Pos  { return d.Struct }
func (d *EnumDecl) Pos() token.Pos    { return d.Enum }
func (d *VarDecl) Pos() token.Pos     { return d.VarPos }
func (d *ConstDecl) Pos() token.Pos   { return d.ConstPos }
func (d *LetDecl) Pos() token.Pos     { return d.Let }
func (d *ImportDecl) Pos() token.Pos  { return d.Import }
func (d *CImportDecl) Pos() token.Pos { return d.Cimport }
func (d *ShardDecl) Pos() token.Pos   { return d.Shard }

func (d *BadDecl) End() token.Pos { return d.To }
func (d *FuncDecl) End() token.Pos {
	if d.Body != nil {
		return d.Body.End()
	}
	return d.EndPos.Add(1)
}
func (d *StructDecl) End() token.Pos { return d.Rbrace.Add(1) }
func (d *EnumDecl) End() token.Pos   { return d.Rbrace.Add(1) }
func (d *VarDecl) End() token.Pos    { return d.EndPos.Add(1) }
func (d *ConstDecl) End() token.Pos  { return d.EndPos.Add(1) }
func (d *LetDecl) End() token.Pos    { return d.EndPos.Add(1) }
func (d *ImportDecl) End() token.Pos { return d.EndPos.Add(1) }
func (d *CImportDecl) End() token.Pos {
	return d.EndPos.Add(1)
}
func (d *ShardDecl) End() token.Pos { return d.EndPos.Add(1) }

// ----------------------------------------------------------------------------
// Files

// A File node represents a Truk source file: a sequence of top-level
// declarations.
type File struct {
	Filename string
	Decls    []Decl
}

func (f *File) Pos() token.Pos {
	if len(f.Decls) > 0 {
		return f.Decls[0].Pos()
	}
	return token.NoPos
}

func (f *File) End() token.Pos {
	if n := len(f.Decls); n > 0 {
		return f.Decls[n-1].End()
	}
	return token.NoPos
}

// Shards returns the shard tags declared in the file, in source order.
func (f *File) Shards() []string {
	var tags []string
	for _, d := range f.Decls {
		if s, ok := d.(*ShardDecl); ok {
			tags = append(tags, s.Name.Name)
		}
	}
	return tags
}
