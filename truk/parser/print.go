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

package parser

import (
	"fmt"
	"strings"

	"truklang.org/go/truk/ast"
)

// debugStr renders a node to a single-line form used by the parser
// tests. Binary and unary expressions are parenthesized so that the
// rendered string exposes the tree shape (and thus the precedence the
// parser applied).
func debugStr(x interface{}) (out string) {
	switch v := x.(type) {
	case *ast.File:
		var decls []string
		for _, d := range v.Decls {
			decls = append(decls, debugStr(d))
		}
		return strings.Join(decls, " ")

	// Declarations
	case *ast.BadDecl:
		return "<bad decl>"

	case *ast.FuncDecl:
		out = "fn " + v.Name.Name + debugParams(v.Params)
		if v.Result != nil {
			out += ": " + debugStr(v.Result)
		}
		if v.Extern {
			return "extern " + out + ";"
		}
		if v.Body != nil {
			out += " " + debugStr(v.Body)
		}
		return out

	case *ast.StructDecl:
		out = "struct " + v.Name.Name
		if len(v.TypeParams) > 0 {
			var names []string
			for _, p := range v.TypeParams {
				names = append(names, p.Name)
			}
			out += "[" + strings.Join(names, ", ") + "]"
		}
		var fields []string
		for _, f := range v.Fields {
			fields = append(fields, f.Name.Name+": "+debugStr(f.Type))
		}
		out += " {" + strings.Join(fields, ", ") + "}"
		if v.Extern {
			out = "extern " + out
		}
		return out

	case *ast.EnumDecl:
		out = "enum " + v.Name.Name
		if v.Backing != nil {
			out += ": " + debugStr(v.Backing)
		}
		var vals []string
		for _, ev := range v.Values {
			s := ev.Name.Name
			if ev.Value != nil {
				s += " = " + debugStr(ev.Value)
			}
			vals = append(vals, s)
		}
		return out + " {" + strings.Join(vals, ", ") + "}"

	case *ast.VarDecl:
		out = "var " + v.Name.Name + ": " + debugStr(v.Type)
		if v.Value != nil {
			out += " = " + debugStr(v.Value)
		}
		if v.Extern {
			out = "extern " + out
		}
		return out + ";"

	case *ast.ConstDecl:
		return "const " + v.Name.Name + ": " + debugStr(v.Type) + " = " + debugStr(v.Value) + ";"

	case *ast.LetDecl:
		var names []string
		for _, n := range v.Names {
			names = append(names, n.Name)
		}
		return "let " + strings.Join(names, ", ") + " = " + debugStr(v.Value) + ";"

	case *ast.ImportDecl:
		return "import " + v.Path.Value + ";"

	case *ast.CImportDecl:
		if v.Angle {
			return "cimport <" + v.Path + ">;"
		}
		return "cimport " + v.Path + ";"

	case *ast.ShardDecl:
		return "shard " + v.Name.Name + ";"

	// Statements
	case *ast.BadStmt:
		return "<bad stmt>"

	case *ast.BlockStmt:
		var stmts []string
		for _, s := range v.List {
			stmts = append(stmts, debugStr(s))
		}
		return "{" + strings.Join(stmts, " ") + "}"

	case *ast.IfStmt:
		out = "if " + debugStr(v.Cond) + " " + debugStr(v.Body)
		if v.Else != nil {
			out += " else " + debugStr(v.Else)
		}
		return out

	case *ast.WhileStmt:
		return "while " + debugStr(v.Cond) + " " + debugStr(v.Body)

	case *ast.ForStmt:
		out = "for "
		if v.Init != nil {
			out += strings.TrimSuffix(debugStr(v.Init), ";")
		}
		out += "; "
		if v.Cond != nil {
			out += debugStr(v.Cond)
		}
		out += "; "
		if v.Post != nil {
			out += strings.TrimSuffix(debugStr(v.Post), ";")
		}
		return out + " " + debugStr(v.Body)

	case *ast.ReturnStmt:
		if len(v.Results) == 0 {
			return "return;"
		}
		var results []string
		for _, r := range v.Results {
			results = append(results, debugStr(r))
		}
		return "return " + strings.Join(results, ", ") + ";"

	case *ast.BranchStmt:
		return v.Tok.String() + ";"

	case *ast.DeferStmt:
		return "defer " + debugStr(v.Body)

	case *ast.MatchStmt:
		var cases []string
		for _, c := range v.Cases {
			pat := "_"
			if c.Pattern != nil {
				pat = debugStr(c.Pattern)
			}
			cases = append(cases, pat+" => "+debugStr(c.Body))
		}
		return "match " + debugStr(v.X) + " {" + strings.Join(cases, ", ") + "}"

	case *ast.AssignStmt:
		return debugStr(v.Target) + " " + v.Tok.String() + " " + debugStr(v.Value) + ";"

	case *ast.ExprStmt:
		return debugStr(v.X) + ";"

	// Expressions
	case *ast.BadExpr:
		return "<bad expr>"

	case *ast.Ident:
		return v.Name

	case *ast.BasicLit:
		return v.Value

	case *ast.ParenExpr:
		return "(" + debugStr(v.X) + ")"

	case *ast.SelectorExpr:
		return debugStr(v.X) + "." + v.Sel.Name

	case *ast.IndexExpr:
		return debugStr(v.X) + "[" + debugStr(v.Index) + "]"

	case *ast.CallExpr:
		var args []string
		for _, a := range v.Args {
			args = append(args, debugStr(a))
		}
		return debugStr(v.Fun) + "(" + strings.Join(args, ", ") + ")"

	case *ast.UnaryExpr:
		return "(" + v.Op.String() + debugStr(v.X) + ")"

	case *ast.BinaryExpr:
		return "(" + debugStr(v.X) + v.Op.String() + debugStr(v.Y) + ")"

	case *ast.CastExpr:
		return "(" + debugStr(v.X) + " as " + debugStr(v.Target) + ")"

	case *ast.ArrayLit:
		var elts []string
		for _, e := range v.Elts {
			elts = append(elts, debugStr(e))
		}
		return "[" + strings.Join(elts, ", ") + "]"

	case *ast.StructLit:
		out = v.Name.Name
		if len(v.TypeArgs) > 0 {
			var args []string
			for _, a := range v.TypeArgs {
				args = append(args, debugStr(a))
			}
			out += "[" + strings.Join(args, ", ") + "]"
		}
		var fields []string
		for _, f := range v.Fields {
			fields = append(fields, f.Name.Name+": "+debugStr(f.Value))
		}
		return out + "{" + strings.Join(fields, ", ") + "}"

	case *ast.LambdaExpr:
		out = "fn" + debugParams(v.Params)
		if v.Result != nil {
			out += ": " + debugStr(v.Result)
		}
		return out + " " + debugStr(v.Body)

	case *ast.TypeParamExpr:
		return "@" + debugStr(v.Type)

	// Types
	case *ast.PrimitiveType:
		return v.Kind.String()

	case *ast.NamedType:
		return v.Name.Name

	case *ast.GenericType:
		var args []string
		for _, a := range v.Args {
			args = append(args, debugStr(a))
		}
		return v.Name.Name + "[" + strings.Join(args, ", ") + "]"

	case *ast.PointerType:
		return "*" + debugStr(v.Base)

	case *ast.ArrayType:
		if v.Size != nil {
			return "[" + debugStr(v.Size) + "]" + debugStr(v.Elem)
		}
		return "[]" + debugStr(v.Elem)

	case *ast.FuncType:
		var params []string
		for _, p := range v.Params {
			params = append(params, debugStr(p))
		}
		if v.Variadic {
			params = append(params, "...")
		}
		out = "fn(" + strings.Join(params, ", ") + ")"
		if v.Result != nil {
			out += ": " + debugStr(v.Result)
		}
		return out

	case *ast.MapType:
		return "map[" + debugStr(v.Key) + ", " + debugStr(v.Value) + "]"

	case *ast.TupleType:
		var elems []string
		for _, e := range v.Elems {
			elems = append(elems, debugStr(e))
		}
		return "(" + strings.Join(elems, ", ") + ")"
	}

	return fmt.Sprintf("<%T>", x)
}

func debugParams(params []*ast.Param) string {
	var parts []string
	for _, p := range params {
		if p.Variadic() {
			parts = append(parts, "...")
		} else {
			parts = append(parts, p.Name.Name+": "+debugStr(p.Type))
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
