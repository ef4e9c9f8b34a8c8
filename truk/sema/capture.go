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

// The capture validator enforces that a lambda references only global
// symbols and symbols declared inside the lambda's own scope subtree.
// The language has no implicit closure over stack frames; the `each`
// builtin's explicit context parameter is the designed replacement.
type captureValidator struct {
	res           *collection
	errs          *errors.List
	scope         *Scope
	currentLambda *ast.LambdaExpr
}

func validateCaptures(files []*ast.File, res *collection, errs *errors.List) {
	v := &captureValidator{res: res, errs: errs, scope: res.global}
	for _, f := range files {
		for _, d := range f.Decls {
			v.node(d)
		}
	}
}

// withScope runs fn with the scope recorded for owner, if any.
func (v *captureValidator) withScope(owner ast.Node, fn func()) {
	if scope, ok := v.res.scopeMap[owner]; ok {
		prev := v.scope
		v.scope = scope
		fn()
		v.scope = prev
		return
	}
	fn()
}

func (v *captureValidator) node(n ast.Node) {
	switch x := n.(type) {
	case nil:
		return

	case *ast.FuncDecl:
		v.withScope(x, func() {
			if x.Body != nil {
				v.node(x.Body)
			}
		})
		return

	case *ast.LambdaExpr:
		prevLambda := v.currentLambda
		v.currentLambda = x
		v.withScope(x, func() {
			v.node(x.Body)
		})
		v.currentLambda = prevLambda
		return

	case *ast.BlockStmt:
		v.withScope(x, func() {
			for _, s := range x.List {
				v.node(s)
			}
		})
		return

	case *ast.ForStmt:
		v.withScope(x, func() {
			v.node(x.Init)
			if x.Cond != nil {
				v.node(x.Cond)
			}
			v.node(x.Post)
			v.node(x.Body)
		})
		return

	case *ast.SelectorExpr:
		// Only the base expression can capture; the selector names a
		// field, not a binding.
		v.node(x.X)
		return

	case *ast.StructLit:
		for _, f := range x.Fields {
			v.node(f.Value)
		}
		return

	case *ast.StructDecl, *ast.EnumDecl, *ast.ImportDecl, *ast.CImportDecl, *ast.ShardDecl:
		return

	case *ast.Ident:
		v.use(x)
		return
	}

	// Generic traversal for every other node; stop descent at children
	// handled above by dispatching back into v.node.
	ast.Walk(n, func(child ast.Node) bool {
		if child == n {
			return true
		}
		v.node(child)
		return false
	}, nil)
}

func (v *captureValidator) use(id *ast.Ident) {
	if v.currentLambda == nil {
		return
	}

	sym, foundIn := v.scope.Lookup(id.Name)
	if sym == nil {
		return
	}
	if foundIn.Kind == GlobalScope {
		return
	}

	lambdaScope, ok := v.res.scopeMap[v.currentLambda]
	if !ok {
		return
	}
	if lambdaScope.encloses(foundIn) {
		return
	}

	v.errs.AddNewf(id.NamePos,
		"Lambda cannot capture variable '%s' from enclosing scope. Use context parameter instead.",
		id.Name)
}
