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

package scanner

import (
	"strings"
	"testing"

	"truklang.org/go/truk/token"
)

type tokLit struct {
	tok token.Token
	lit string
}

func scanAll(t *testing.T, src string) ([]tokLit, []string) {
	t.Helper()
	var s Scanner
	var errs []string
	eh := func(pos token.Pos, msg string) {
		errs = append(errs, msg)
	}
	s.Init(token.NewFile("test.truk", len(src)), []byte(src), eh, 0)

	var toks []tokLit
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		toks = append(toks, tokLit{tok, lit})
	}
	return toks, errs
}

func TestScanTokens(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		want []tokLit
	}{{
		"identifiers and keywords",
		"fn main foo_bar _private i32 enum",
		[]tokLit{
			{token.FN, "fn"},
			{token.IDENT, "main"},
			{token.IDENT, "foo_bar"},
			{token.IDENT, "_private"},
			{token.I32, "i32"},
			{token.IDENT, "enum"}, // contextual, not reserved
		},
	}, {
		"decimal and based integers",
		"0 42 0x1F 0b1010 0o777",
		[]tokLit{
			{token.INT, "0"},
			{token.INT, "42"},
			{token.INT, "0x1F"},
			{token.INT, "0b1010"},
			{token.INT, "0o777"},
		},
	}, {
		"floats",
		"3.14 0.5 1.5e3 2.5E-1",
		[]tokLit{
			{token.FLOAT, "3.14"},
			{token.FLOAT, "0.5"},
			{token.FLOAT, "1.5e3"},
			{token.FLOAT, "2.5E-1"},
		},
	}, {
		"strings and chars",
		`"hello" "a\nb" "q\"q" 'x' '\n'`,
		[]tokLit{
			{token.STRING, `"hello"`},
			{token.STRING, `"a\nb"`},
			{token.STRING, `"q\"q"`},
			{token.CHAR, `'x'`},
			{token.CHAR, `'\n'`},
		},
	}, {
		"bool and nil keywords",
		"true false nil",
		[]tokLit{
			{token.TRUE, "true"},
			{token.FALSE, "false"},
			{token.NIL, "nil"},
		},
	}, {
		"operators",
		"+ - * / % == != < <= > >= && || & | ^ << >> ! ~ = += -= *= /= %= => ... @",
		[]tokLit{
			{token.ADD, ""}, {token.SUB, ""}, {token.MUL, ""}, {token.QUO, ""}, {token.REM, ""},
			{token.EQL, ""}, {token.NEQ, ""}, {token.LSS, ""}, {token.LEQ, ""}, {token.GTR, ""}, {token.GEQ, ""},
			{token.LAND, ""}, {token.LOR, ""}, {token.AND, ""}, {token.OR, ""}, {token.XOR, ""},
			{token.SHL, ""}, {token.SHR, ""}, {token.NOT, ""}, {token.TILDE, ""},
			{token.ASSIGN, ""}, {token.ADD_ASSIGN, ""}, {token.SUB_ASSIGN, ""},
			{token.MUL_ASSIGN, ""}, {token.QUO_ASSIGN, ""}, {token.REM_ASSIGN, ""},
			{token.ARROW, ""}, {token.ELLIPSIS, ""}, {token.AT, ""},
		},
	}, {
		"punctuation",
		"( ) [ ] { } , . ; :",
		[]tokLit{
			{token.LPAREN, ""}, {token.RPAREN, ""}, {token.LBRACK, ""}, {token.RBRACK, ""},
			{token.LBRACE, ""}, {token.RBRACE, ""}, {token.COMMA, ""}, {token.PERIOD, ""},
			{token.SEMICOLON, ""}, {token.COLON, ""},
		},
	}, {
		"line comments are skipped",
		"a // comment\nb",
		[]tokLit{
			{token.IDENT, "a"},
			{token.IDENT, "b"},
		},
	}, {
		"member access on identifier",
		"p.x",
		[]tokLit{
			{token.IDENT, "p"},
			{token.PERIOD, ""},
			{token.IDENT, "x"},
		},
	}}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, errs := scanAll(t, tc.in)
			if len(errs) > 0 {
				t.Fatalf("unexpected scan errors: %v", errs)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i].tok != tc.want[i].tok {
					t.Errorf("token %d: got %s, want %s", i, got[i].tok, tc.want[i].tok)
				}
				if tc.want[i].lit != "" && got[i].lit != tc.want[i].lit {
					t.Errorf("token %d: got literal %q, want %q", i, got[i].lit, tc.want[i].lit)
				}
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
		want string
	}{
		{"unterminated string", `"abc`, "Unterminated string literal"},
		{"unterminated string at newline", "\"abc\nx", "Unterminated string literal"},
		{"second decimal point", "1.2.3", "second decimal point"},
		{"bad escape", `"a\qb"`, "Invalid escape sequence"},
		{"hex without digits", "0x", "hexadecimal literal has no digits"},
		{"binary without digits", "0b", "binary literal has no digits"},
		{"unterminated char", "'a", "Unterminated character literal"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, errs := scanAll(t, tc.in)
			if len(errs) == 0 {
				t.Fatalf("expected a scan error for %q", tc.in)
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tc.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", errs, tc.want)
			}
		})
	}
}

func TestWhitespaceInsensitive(t *testing.T) {
	a, errsA := scanAll(t, "fn main ( ) { return ; }")
	b, errsB := scanAll(t, "fn main(){return;}")
	if len(errsA)+len(errsB) > 0 {
		t.Fatalf("unexpected errors: %v %v", errsA, errsB)
	}
	if len(a) != len(b) {
		t.Fatalf("token counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].tok != b[i].tok {
			t.Errorf("token %d differs: %s vs %s", i, a[i].tok, b[i].tok)
		}
	}
}
