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
	"truklang.org/go/truk/token"
)

// containsControlFlow reports whether the subtree contains any return,
// break, or continue statement. Nested lambdas form their own
// control-flow context and are not descended into.
func containsControlFlow(node ast.Node) bool {
	found := false
	ast.Walk(node, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.LambdaExpr:
			return false
		case *ast.ReturnStmt, *ast.BranchStmt:
			found = true
			return false
		}
		return !found
	}, nil)
	return found
}

// containsBreakOrContinue reports whether the subtree contains a break
// or continue statement, again stopping at lambda boundaries.
func containsBreakOrContinue(node ast.Node) bool {
	found := false
	ast.Walk(node, func(n ast.Node) bool {
		switch b := n.(type) {
		case *ast.LambdaExpr:
			return false
		case *ast.BranchStmt:
			if b.Tok == token.BREAK || b.Tok == token.CONTINUE {
				found = true
			}
			return false
		}
		return !found
	}, nil)
	return found
}
