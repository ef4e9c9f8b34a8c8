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

// Package literal implements parsing of Truk numeric literal values.
//
// The scanner validates the shape of a literal; this package turns the
// literal text into an exact decimal value. Values are kept in
// arbitrary-precision form so that untyped literals survive unmangled
// until a target type is known.
package literal

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// NumInfo is the parsed form of a numeric literal.
type NumInfo struct {
	// Base is 10, 16, 2, or 8.
	Base int

	// IsFloat reports whether the literal has a fraction or exponent.
	IsFloat bool

	// Value is the exact value of the literal.
	Value apd.Decimal
}

// ParseNum parses a Truk numeric literal: a decimal, hexadecimal (0x),
// binary (0b), or octal (0o) integer, or a decimal float with optional
// exponent.
func ParseNum(s string) (*NumInfo, error) {
	var n NumInfo
	n.Base = 10

	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			n.Base = 16
		case 'b':
			n.Base = 2
		case 'o':
			n.Base = 8
		}
	}

	if n.Base != 10 {
		var coeff apd.BigInt
		if _, ok := coeff.SetString(s[2:], n.Base); !ok {
			return nil, fmt.Errorf("invalid integer literal %q", s)
		}
		n.Value.Set(apd.NewWithBigInt(&coeff, 0))
		return &n, nil
	}

	n.IsFloat = strings.ContainsAny(s, ".eE")
	if _, _, err := n.Value.SetString(s); err != nil {
		return nil, fmt.Errorf("invalid numeric literal %q: %v", s, err)
	}
	return &n, nil
}

// Uint64 parses an integer literal that must fit an unsigned 64-bit
// value, as used for array sizes.
func Uint64(s string) (uint64, error) {
	n, err := ParseNum(s)
	if err != nil {
		return 0, err
	}
	if n.IsFloat || n.Value.Negative {
		return 0, fmt.Errorf("invalid size literal %q", s)
	}
	i, err := n.Value.Int64()
	if err != nil || i < 0 {
		return 0, fmt.Errorf("size literal %q out of range", s)
	}
	return uint64(i), nil
}

// Int64 parses an integer literal into a signed 64-bit value, as used
// for explicit enum values.
func Int64(s string) (int64, error) {
	n, err := ParseNum(s)
	if err != nil {
		return 0, err
	}
	if n.IsFloat {
		return 0, fmt.Errorf("invalid integer literal %q", s)
	}
	return n.Value.Int64()
}
