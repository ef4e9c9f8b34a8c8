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

// Package parser implements a parser for Truk source files. Input may
// be provided in a variety of forms; the output is an abstract syntax
// tree (AST) representing the Truk source. The parser is invoked
// through one of the Parse* functions.
package parser // import "truklang.org/go/truk/parser"

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"truklang.org/go/truk/ast"
)

// If src != nil, readSource converts src to a []byte if possible;
// otherwise it returns an error. If src == nil, readSource returns the
// result of reading the file specified by filename.
func readSource(filename string, src interface{}) ([]byte, error) {
	if src != nil {
		switch s := src.(type) {
		case string:
			return []byte(s), nil
		case []byte:
			return s, nil
		case *bytes.Buffer:
			// is io.Reader, but src is already available in []byte form
			if s != nil {
				return s.Bytes(), nil
			}
		case io.Reader:
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, s); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
		return nil, fmt.Errorf("invalid source type %T", src)
	}
	return os.ReadFile(filename)
}

// Option specifies a parse option.
type Option func(p *parser)

var (
	// ParseComments causes comments to be scanned (they are currently
	// not attached to the AST but no longer terminate a token stream
	// early during tracing).
	ParseComments Option = parseComments
	parseComments        = func(p *parser) {
		p.mode |= parseCommentsMode
	}

	// Trace causes parsing to print a trace of parsed productions.
	Trace    Option = traceOpt
	traceOpt        = func(p *parser) {
		p.mode |= traceMode
	}
)

// A mode value is a set of flags (or 0).
// They control optional parser functionality.
type mode uint

const (
	parseCommentsMode mode = 1 << iota // scan comments
	traceMode                          // print a trace of parsed productions
)

// ParseFile parses the source code of a single Truk source file and
// returns the corresponding File node. The source code may be provided
// via the filename of the source file, or via the src parameter.
//
// If src != nil, ParseFile parses the source from src and the filename
// is only used when recording position information. The type of the
// argument for the src parameter must be string, []byte, or io.Reader.
// If src == nil, ParseFile parses the file specified by filename.
//
// If syntax errors were found, the result is a partial AST (with Bad*
// nodes representing the fragments of erroneous source code) and the
// error describes the failures: the parser attempts to resynchronize at
// the next top-level keyword after an error, so a file with three bad
// declarations produces three diagnostics, not one. Multiple errors are
// returned via an errors.List sorted by file position.
func ParseFile(filename string, src interface{}, options ...Option) (f *ast.File, err error) {
	// get source
	text, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}

	var pp parser
	pp.init(filename, text, options)
	f = pp.parseFile(filename)

	pp.errors.Sort()
	return f, pp.errors.Err()
}

// ParseExpr is a convenience function for parsing an expression. The
// source must be a valid Truk expression.
func ParseExpr(src string) (ast.Expr, error) {
	var p parser
	p.init("", []byte(src), nil)
	e := p.parseExpr()
	p.errors.Sort()
	return e, p.errors.Err()
}
