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
)

// collection is the output of the first semantic pass: a tree of
// scopes, a map from AST nodes to their scopes, the lambda list used by
// the capture validator, and the file/shard bookkeeping behind the
// visibility rules.
type collection struct {
	global   *Scope
	scopeMap map[ast.Node]*Scope
	lambdas  []*ast.LambdaExpr

	functionFile map[string]string
	structFile   map[string]string
	globalFile   map[string]string
	fileShards   map[string][]string

	errs errors.List
}

type collector struct {
	res         *collection
	currentFile string
	scope       *Scope
}

// collect runs the scope/symbol collector over all files. The files
// share one global scope, so cross-file references and the shard rules
// see a single program.
func collect(files []*ast.File) *collection {
	res := &collection{
		global:       newScope(GlobalScope, nil, nil),
		scopeMap:     make(map[ast.Node]*Scope),
		functionFile: make(map[string]string),
		structFile:   make(map[string]string),
		globalFile:   make(map[string]string),
		fileShards:   make(map[string][]string),
	}
	c := &collector{res: res, scope: res.global}
	for _, f := range files {
		c.currentFile = f.Filename
		for _, d := range f.Decls {
			c.decl(d)
		}
	}
	return res
}

// declare binds a symbol in the current scope, diagnosing duplicates in
// the same scope without halting the walk.
func (c *collector) declare(sym *Symbol) {
	if _, ok := c.scope.Symbols[sym.Name]; ok {
		c.res.errs.AddNewf(sym.Pos, "Duplicate declaration of '%s'", sym.Name)
	}
	c.scope.Symbols[sym.Name] = sym
}

func (c *collector) pushScope(kind ScopeKind, owner ast.Node) *Scope {
	c.scope = newScope(kind, owner, c.scope)
	c.res.scopeMap[owner] = c.scope
	return c.scope
}

func (c *collector) popScope() {
	c.scope = c.scope.Parent
}

func (c *collector) decl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.FuncDecl:
		c.res.functionFile[n.Name.Name] = c.currentFile
		c.declare(&Symbol{
			Name:  n.Name.Name,
			Type:  &Type{Kind: Function, Name: n.Name.Name},
			Scope: SymbolGlobal,
			Pos:   n.Name.NamePos,
			Decl:  n,
		})

		c.pushScope(FunctionScope, n)
		c.params(n.Params, n)
		if n.Body != nil {
			c.stmt(n.Body)
		}
		c.popScope()

	case *ast.StructDecl:
		c.res.structFile[n.Name.Name] = c.currentFile

	case *ast.EnumDecl:
		c.res.structFile[n.Name.Name] = c.currentFile

	case *ast.VarDecl:
		c.res.globalFile[n.Name.Name] = c.currentFile
		c.varDecl(n)

	case *ast.ConstDecl:
		c.res.globalFile[n.Name.Name] = c.currentFile
		c.constDecl(n)

	case *ast.ShardDecl:
		c.res.fileShards[c.currentFile] = append(c.res.fileShards[c.currentFile], n.Name.Name)

	case *ast.ImportDecl, *ast.CImportDecl, *ast.BadDecl:
		// nothing to collect
	}
}

func (c *collector) params(params []*ast.Param, owner ast.Node) {
	for _, p := range params {
		if p.Variadic() {
			continue
		}
		c.declare(&Symbol{
			Name:    p.Name.Name,
			Type:    &Type{Kind: Primitive, Name: "param"},
			Mutable: true,
			Scope:   SymbolParameter,
			Pos:     p.Name.NamePos,
			Decl:    owner,
		})
	}
}

func (c *collector) varDecl(n *ast.VarDecl) {
	if n.Value != nil {
		c.expr(n.Value)
	}
	c.declare(&Symbol{
		Name:    n.Name.Name,
		Type:    &Type{Kind: Primitive, Name: "var"},
		Mutable: true,
		Scope:   c.scope.ownerKind(),
		Pos:     n.Name.NamePos,
		Decl:    n,
	})
}

func (c *collector) constDecl(n *ast.ConstDecl) {
	c.expr(n.Value)
	c.declare(&Symbol{
		Name:  n.Name.Name,
		Type:  &Type{Kind: Primitive, Name: "const"},
		Scope: c.scope.ownerKind(),
		Pos:   n.Name.NamePos,
		Decl:  n,
	})
}

func (c *collector) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case nil:

	case *ast.BlockStmt:
		c.pushScope(BlockScope, n)
		for _, st := range n.List {
			c.stmt(st)
		}
		c.popScope()

	case *ast.VarDecl:
		c.varDecl(n)

	case *ast.ConstDecl:
		c.constDecl(n)

	case *ast.LetDecl:
		c.expr(n.Value)
		for _, name := range n.Names {
			c.declare(&Symbol{
				Name:    name.Name,
				Type:    &Type{Kind: Primitive, Name: "let"},
				Mutable: true,
				Scope:   c.scope.ownerKind(),
				Pos:     name.NamePos,
				Decl:    n,
			})
		}

	case *ast.IfStmt:
		c.expr(n.Cond)
		c.stmt(n.Body)
		c.stmt(n.Else)

	case *ast.WhileStmt:
		c.expr(n.Cond)
		c.stmt(n.Body)

	case *ast.ForStmt:
		c.pushScope(BlockScope, n)
		if init, ok := n.Init.(*ast.AssignStmt); ok {
			// A for-init assignment to an undeclared plain identifier
			// introduces the name into the header scope.
			if target, ok := init.Target.(*ast.Ident); ok {
				if sym, _ := c.scope.Lookup(target.Name); sym == nil {
					c.declare(&Symbol{
						Name:    target.Name,
						Type:    &Type{Kind: Primitive, Name: "var"},
						Mutable: true,
						Scope:   c.scope.ownerKind(),
						Pos:     target.NamePos,
						Decl:    init,
					})
				}
			}
			c.expr(init.Value)
		} else {
			c.stmt(n.Init)
		}
		if n.Cond != nil {
			c.expr(n.Cond)
		}
		c.stmt(n.Post)
		c.stmt(n.Body)
		c.popScope()

	case *ast.ReturnStmt:
		for _, r := range n.Results {
			c.expr(r)
		}

	case *ast.DeferStmt:
		c.stmt(n.Body)

	case *ast.MatchStmt:
		c.expr(n.X)
		for _, cs := range n.Cases {
			if cs.Pattern != nil {
				c.expr(cs.Pattern)
			}
			c.stmt(cs.Body)
		}

	case *ast.AssignStmt:
		c.expr(n.Target)
		c.expr(n.Value)

	case *ast.ExprStmt:
		c.expr(n.X)

	case *ast.BranchStmt, *ast.BadStmt:
		// nothing to collect
	}
}

func (c *collector) expr(e ast.Expr) {
	switch n := e.(type) {
	case nil:

	case *ast.LambdaExpr:
		c.res.lambdas = append(c.res.lambdas, n)
		c.pushScope(LambdaScope, n)
		c.params(n.Params, n)
		c.stmt(n.Body)
		c.popScope()

	case *ast.ParenExpr:
		c.expr(n.X)

	case *ast.SelectorExpr:
		c.expr(n.X)

	case *ast.IndexExpr:
		c.expr(n.X)
		c.expr(n.Index)

	case *ast.CallExpr:
		c.expr(n.Fun)
		for _, a := range n.Args {
			c.expr(a)
		}

	case *ast.UnaryExpr:
		c.expr(n.X)

	case *ast.BinaryExpr:
		c.expr(n.X)
		c.expr(n.Y)

	case *ast.CastExpr:
		c.expr(n.X)

	case *ast.ArrayLit:
		for _, el := range n.Elts {
			c.expr(el)
		}

	case *ast.StructLit:
		for _, f := range n.Fields {
			c.expr(f.Value)
		}

	case *ast.Ident, *ast.BasicLit, *ast.TypeParamExpr, *ast.BadExpr:
		// nothing to collect
	}
}

// shardsShared reports whether the two files carry a common shard tag.
func (res *collection) shardsShared(file1, file2 string) bool {
	for _, a := range res.fileShards[file1] {
		for _, b := range res.fileShards[file2] {
			if a == b {
				return true
			}
		}
	}
	return false
}
