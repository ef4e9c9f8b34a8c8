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

// ScopeKind classifies a lexical scope.
type ScopeKind uint8

const (
	GlobalScope ScopeKind = iota
	FunctionScope
	LambdaScope
	BlockScope
)

// SymbolScope records where a symbol was declared.
type SymbolScope uint8

const (
	SymbolGlobal SymbolScope = iota
	SymbolParameter
	SymbolFunctionLocal
	SymbolLambdaLocal
)

// A Symbol is a single named binding.
type Symbol struct {
	Name    string
	Type    *Type
	Mutable bool
	Scope   SymbolScope
	Pos     token.Pos
	Decl    ast.Node
}

// A Scope is a lexical region owning a bindings table. Nested scopes
// form a tree mirroring program structure.
type Scope struct {
	Kind     ScopeKind
	Owner    ast.Node // the fn/lambda/block/for the scope belongs to
	Parent   *Scope
	Symbols  map[string]*Symbol
	Children []*Scope
}

func newScope(kind ScopeKind, owner ast.Node, parent *Scope) *Scope {
	s := &Scope{Kind: kind, Owner: owner, Parent: parent, Symbols: make(map[string]*Symbol)}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Lookup walks the scope chain outward and returns the first symbol
// bound to name together with the scope that owns it.
func (s *Scope) Lookup(name string) (*Symbol, *Scope) {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.Symbols[name]; ok {
			return sym, scope
		}
	}
	return nil, nil
}

// encloses reports whether s is inner itself or one of its ancestors,
// stopping at the global scope.
func (s *Scope) encloses(inner *Scope) bool {
	for scope := inner; scope != nil; scope = scope.Parent {
		if scope == s {
			return true
		}
		if scope.Kind == GlobalScope {
			break
		}
	}
	return false
}

// ownerKind reports the symbol scope for a declaration made directly in
// s: the nearest enclosing function or lambda decides between
// function-local and lambda-local.
func (s *Scope) ownerKind() SymbolScope {
	for scope := s; scope != nil; scope = scope.Parent {
		switch scope.Kind {
		case GlobalScope:
			return SymbolGlobal
		case FunctionScope:
			return SymbolFunctionLocal
		case LambdaScope:
			return SymbolLambdaLocal
		}
	}
	return SymbolGlobal
}
