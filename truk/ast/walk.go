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

package ast

import (
	"fmt"
)

// Walk traverses an AST in depth-first order: It starts by calling
// before(node); node must not be nil. If before returns true, Walk
// invokes itself recursively for each of the non-nil children of node,
// followed by a call of after. Both functions may be nil. If before is
// nil, it is assumed to always return true.
func Walk(node Node, before func(Node) bool, after func(Node)) {
	if before == nil {
		before = func(Node) bool { return true }
	}
	if after == nil {
		after = func(Node) {}
	}
	walk(node, before, after)
}

func walkList[N Node](list []N, before func(Node) bool, after func(Node)) {
	for _, node := range list {
		walk(node, before, after)
	}
}

func walkIf(node Node, before func(Node) bool, after func(Node)) {
	if node != nil {
		walk(node, before, after)
	}
}

func walk(node Node, before func(Node) bool, after func(Node)) {
	if !before(node) {
		return
	}

	// walk children
	// (the order of the cases matches the order of the corresponding
	// node types in ast.go)
	switch n := node.(type) {
	// Expressions
	case *BadExpr, *Ident, *BasicLit:
		// nothing to do

	case *ParenExpr:
		walk(n.X, before, after)

	case *SelectorExpr:
		walk(n.X, before, after)
		walk(n.Sel, before, after)

	case *IndexExpr:
		walk(n.X, before, after)
		walk(n.Index, before, after)

	case *CallExpr:
		walk(n.Fun, before, after)
		walkList(n.Args, before, after)

	case *UnaryExpr:
		walk(n.X, before, after)

	case *BinaryExpr:
		walk(n.X, before, after)
		walk(n.Y, before, after)

	case *CastExpr:
		walk(n.X, before, after)
		walk(n.Target, before, after)

	case *ArrayLit:
		walkList(n.Elts, before, after)

	case *FieldValue:
		walk(n.Name, before, after)
		walk(n.Value, before, after)

	case *StructLit:
		walkList(n.TypeArgs, before, after)
		walkList(n.Fields, before, after)

	case *Param:
		if n.Name != nil {
			walk(n.Name, before, after)
		}
		walkIf(n.Type, before, after)

	case *LambdaExpr:
		walkList(n.Params, before, after)
		walkIf(n.Result, before, after)
		walk(n.Body, before, after)

	case *TypeParamExpr:
		walk(n.Type, before, after)

	// Type expressions
	case *PrimitiveType:
		// nothing to do

	case *NamedType:
		walk(n.Name, before, after)

	case *GenericType:
		walk(n.Name, before, after)
		walkList(n.Args, before, after)

	case *PointerType:
		walk(n.Base, before, after)

	case *ArrayType:
		walkIf(n.Size, before, after)
		walk(n.Elem, before, after)

	case *FuncType:
		walkList(n.Params, before, after)
		walkIf(n.Result, before, after)

	case *MapType:
		walk(n.Key, before, after)
		walk(n.Value, before, after)

	case *TupleType:
		walkList(n.Elems, before, after)

	// Statements
	case *BadStmt:
		// nothing to do

	case *BlockStmt:
		walkList(n.List, before, after)

	case *IfStmt:
		walk(n.Cond, before, after)
		walk(n.Body, before, after)
		walkIf(n.Else, before, after)

	case *WhileStmt:
		walk(n.Cond, before, after)
		walk(n.Body, before, after)

	case *ForStmt:
		walkIf(n.Init, before, after)
		walkIf(n.Cond, before, after)
		walkIf(n.Post, before, after)
		walk(n.Body, before, after)

	case *ReturnStmt:
		walkList(n.Results, before, after)

	case *BranchStmt:
		// nothing to do

	case *DeferStmt:
		walk(n.Body, before, after)

	case *MatchCase:
		walkIf(n.Pattern, before, after)
		walk(n.Body, before, after)

	case *MatchStmt:
		walk(n.X, before, after)
		walkList(n.Cases, before, after)

	case *AssignStmt:
		walk(n.Target, before, after)
		walk(n.Value, before, after)

	case *ExprStmt:
		walk(n.X, before, after)

	// Declarations
	case *BadDecl:
		// nothing to do

	case *FuncDecl:
		walk(n.Name, before, after)
		walkList(n.Params, before, after)
		walkIf(n.Result, before, after)
		if n.Body != nil {
			walk(n.Body, before, after)
		}

	case *Field:
		walk(n.Name, before, after)
		walk(n.Type, before, after)

	case *StructDecl:
		walk(n.Name, before, after)
		walkList(n.TypeParams, before, after)
		walkList(n.Fields, before, after)

	case *EnumValue:
		walk(n.Name, before, after)
		walkIf(n.Value, before, after)

	case *EnumDecl:
		walk(n.Name, before, after)
		walkIf(n.Backing, before, after)
		walkList(n.Values, before, after)

	case *VarDecl:
		walk(n.Name, before, after)
		walk(n.Type, before, after)
		walkIf(n.Value, before, after)

	case *ConstDecl:
		walk(n.Name, before, after)
		walk(n.Type, before, after)
		walkIf(n.Value, before, after)

	case *LetDecl:
		walkList(n.Names, before, after)
		walk(n.Value, before, after)

	case *ImportDecl:
		walk(n.Path, before, after)

	case *CImportDecl:
		// nothing to do

	case *ShardDecl:
		walk(n.Name, before, after)

	// Files
	case *File:
		walkList(n.Decls, before, after)

	default:
		panic(fmt.Sprintf("Walk: unexpected node type %T", n))
	}

	after(node)
}
