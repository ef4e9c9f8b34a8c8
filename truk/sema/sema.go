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

// Package sema implements the semantic analysis passes of the Truk
// front-end: scope and symbol collection, type resolution and checking,
// control-flow validation, and lambda capture enforcement.
//
// Semantic errors never abort a walk; every pass runs to completion and
// the diagnostics accumulate in one list.
package sema // import "truklang.org/go/truk/sema"

import (
	"truklang.org/go/truk/ast"
	"truklang.org/go/truk/memctx"
	"truklang.org/go/truk/token"
)

// Result carries the outputs of a check beyond the diagnostics: the
// scope tree and the types the checker inferred for let declarations.
type Result struct {
	Global   *Scope
	Inferred map[*ast.LetDecl][]*Type
}

// Check runs all semantic passes over the given files as one program.
// Files are checked together so that cross-file visibility and shard
// rules apply. The returned error is nil when the program is clean, and
// an errors.List otherwise.
func Check(files ...*ast.File) error {
	_, err := CheckProgram(files)
	return err
}

// CheckProgram is like Check but also returns the analysis result.
func CheckProgram(files []*ast.File) (*Result, error) {
	res := collect(files)

	c := &checker{
		mem:          memctx.NewStack[any](),
		res:          res,
		errs:         res.errs,
		inferred:     make(map[*ast.LetDecl][]*Type),
		reportedKeys: make(map[token.Pos]bool),
	}
	c.registerBuiltins()

	// Type names are sighted before struct fields resolve, so fields
	// may reference peer structs in any order; function signatures and
	// globals follow, so bodies may forward-reference freely.
	c.registerTypeNames(files)
	c.resolveTypeBodies(files)
	c.registerSignatures(files)

	for _, f := range files {
		c.currentFile = f.Filename
		for _, d := range f.Decls {
			switch n := d.(type) {
			case *ast.FuncDecl:
				c.checkFunc(n)
			case *ast.VarDecl:
				c.checkVarDecl(n, true)
			case *ast.ConstDecl:
				c.checkConstDecl(n, true)
			}
		}
	}

	validateCaptures(files, res, &c.errs)

	c.errs.Sort()
	return &Result{Global: res.global, Inferred: c.inferred}, c.errs.Err()
}

// registerTypeNames inserts an incomplete entry for every declared
// struct and enum.
func (c *checker) registerTypeNames(files []*ast.File) {
	for _, f := range files {
		c.currentFile = f.Filename
		for _, d := range f.Decls {
			switch n := d.(type) {
			case *ast.StructDecl:
				if c.mem.IsSet(typeKeyPrefix + n.Name.Name) {
					c.errorf(n.Name.NamePos, "Duplicate declaration of '%s'", n.Name.Name)
				}
				c.registerType(n.Name.Name, &Type{
					Kind:   Struct,
					Name:   n.Name.Name,
					Fields: make(map[string]*Type),
				})
			case *ast.EnumDecl:
				if c.mem.IsSet(typeKeyPrefix + n.Name.Name) {
					c.errorf(n.Name.NamePos, "Duplicate declaration of '%s'", n.Name.Name)
				}
				c.registerType(n.Name.Name, &Type{
					Kind:       Named,
					Name:       n.Name.Name,
					EnumValues: make(map[string]int64),
				})
			}
		}
	}
}

// resolveTypeBodies fills in struct fields and enum values.
func (c *checker) resolveTypeBodies(files []*ast.File) {
	for _, f := range files {
		c.currentFile = f.Filename
		for _, d := range f.Decls {
			switch n := d.(type) {
			case *ast.StructDecl:
				entry := c.lookupType(n.Name.Name)
				if entry == nil {
					continue
				}
				for _, field := range n.Fields {
					ft := c.resolveType(field.Type)
					if ft == nil {
						c.errorf(field.Name.NamePos, "Unknown field type: %s", typeExprString(field.Type))
						continue
					}
					entry.FieldNames = append(entry.FieldNames, field.Name.Name)
					entry.Fields[field.Name.Name] = ft
				}

			case *ast.EnumDecl:
				entry := c.lookupType(n.Name.Name)
				if entry == nil {
					continue
				}
				backing := primitiveTypes["i32"]
				if n.Backing != nil {
					backing = c.resolveType(n.Backing)
					if backing == nil || !isInteger(backing) {
						c.errorf(n.Enum, "Enum backing type must be an integer type")
						backing = primitiveTypes["i32"]
					}
				}
				entry.Backing = backing
				next := int64(0)
				for _, v := range n.Values {
					if v.Value != nil {
						if i, ok := enumValueOf(v); ok {
							next = i
						} else {
							c.errorf(v.Value.Pos(), "Enum value must be an integer constant")
						}
					}
					if _, dup := entry.EnumValues[v.Name.Name]; dup {
						c.errorf(v.Name.NamePos, "Duplicate declaration of '%s'", v.Name.Name)
					}
					entry.EnumValues[v.Name.Name] = next
					next++
				}
			}
		}
	}
}

// registerSignatures resolves and registers function signatures and
// global variable/constant symbols.
func (c *checker) registerSignatures(files []*ast.File) {
	for _, f := range files {
		c.currentFile = f.Filename
		for _, d := range f.Decls {
			switch n := d.(type) {
			case *ast.FuncDecl:
				ret := typeVoid
				if n.Result != nil {
					ret = c.resolveType(n.Result)
					if ret == nil {
						c.errorf(n.Fn, "Unknown return type: %s", typeExprString(n.Result))
						continue
					}
				}
				ft := &Type{Kind: Function, Name: n.Name.Name, Result: ret}
				for _, p := range n.Params {
					if p.Variadic() {
						ft.Variadic = true
						continue
					}
					pt := c.resolveType(p.Type)
					if pt == nil {
						c.errorf(p.Name.NamePos, "Unknown parameter type: %s", typeExprString(p.Type))
						continue
					}
					ft.Params = append(ft.Params, pt)
				}
				c.registerSymbol(n.Name.Name, ft, false, n.Name.NamePos)

			case *ast.VarDecl:
				vt := c.resolveType(n.Type)
				if vt == nil {
					c.errorf(n.VarPos, "Unknown variable type: %s", typeExprString(n.Type))
					continue
				}
				c.registerSymbol(n.Name.Name, vt, !n.Extern, n.Name.NamePos)

			case *ast.ConstDecl:
				ct := c.resolveType(n.Type)
				if ct == nil {
					c.errorf(n.ConstPos, "Unknown constant type: %s", typeExprString(n.Type))
					continue
				}
				c.registerSymbol(n.Name.Name, ct, false, n.Name.NamePos)
			}
		}
	}
}
