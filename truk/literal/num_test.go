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

package literal

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestParseNumIntegers(t *testing.T) {
	testCases := []struct {
		in   string
		base int
		want int64
	}{
		{"0", 10, 0},
		{"42", 10, 42},
		{"0x1F", 16, 31},
		{"0xff", 16, 255},
		{"0b1010", 2, 10},
		{"0o777", 8, 511},
	}
	for _, tc := range testCases {
		n, err := ParseNum(tc.in)
		qt.Assert(t, qt.IsNil(err), qt.Commentf("input %q", tc.in))
		qt.Assert(t, qt.Equals(n.Base, tc.base), qt.Commentf("input %q", tc.in))
		qt.Assert(t, qt.IsFalse(n.IsFloat), qt.Commentf("input %q", tc.in))
		got, err := n.Value.Int64()
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(got, tc.want), qt.Commentf("input %q", tc.in))
	}
}

func TestParseNumFloats(t *testing.T) {
	testCases := []struct {
		in   string
		want float64
	}{
		{"3.14", 3.14},
		{"0.5", 0.5},
		{"1.5e3", 1500},
		{"2.5E-1", 0.25},
	}
	for _, tc := range testCases {
		n, err := ParseNum(tc.in)
		qt.Assert(t, qt.IsNil(err), qt.Commentf("input %q", tc.in))
		qt.Assert(t, qt.IsTrue(n.IsFloat), qt.Commentf("input %q", tc.in))
		got, err := n.Value.Float64()
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(got, tc.want), qt.Commentf("input %q", tc.in))
	}
}

func TestParseNumErrors(t *testing.T) {
	for _, in := range []string{"0xZZ", "abc", ""} {
		_, err := ParseNum(in)
		qt.Assert(t, qt.IsNotNil(err), qt.Commentf("input %q", in))
	}
}

func TestUint64(t *testing.T) {
	got, err := Uint64("10")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, uint64(10)))

	got, err = Uint64("0x10")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, uint64(16)))

	_, err = Uint64("3.5")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestInt64(t *testing.T) {
	got, err := Int64("0b101")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got, int64(5)))

	_, err = Int64("1.5")
	qt.Assert(t, qt.IsNotNil(err))
}
