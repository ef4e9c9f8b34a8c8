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

package memctx

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestRootNeverPops(t *testing.T) {
	s := NewStack[int]()
	s.Set("k", 1)
	s.Pop()
	s.Pop()
	v, ok := s.Get("k", false)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, 1))
	qt.Assert(t, qt.Equals(s.Depth(), 1))
}

func TestLexicalLookup(t *testing.T) {
	s := NewStack[string]()
	s.Set("outer", "root")
	s.Push()
	s.Set("inner", "child")

	// current-only lookup does not see the parent
	_, ok := s.Get("outer", false)
	qt.Assert(t, qt.IsFalse(ok))

	v, ok := s.Get("outer", true)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, "root"))

	v, ok = s.Get("inner", false)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, "child"))
}

func TestShadowingIsStackNeutral(t *testing.T) {
	s := NewStack[int]()
	s.Set("k", 1)
	s.Push()
	s.Set("k", 2)
	v, _ := s.Get("k", true)
	qt.Assert(t, qt.Equals(v, 2))
	s.Pop()
	v, _ = s.Get("k", true)
	qt.Assert(t, qt.Equals(v, 1))
}

func TestDeferHoistMovesBinding(t *testing.T) {
	s := NewStack[int]()
	s.Push()
	s.Set("k", 42)
	s.DeferHoist("k")
	s.Pop()

	v, ok := s.Get("k", false)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, 42))
}

func TestDroppedKeyIsNotHoisted(t *testing.T) {
	s := NewStack[int]()
	s.Push()
	s.Set("k", 42)
	s.Drop("k")
	s.DeferHoist("k")
	s.Pop()

	_, ok := s.Get("k", true)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestHoistOverwritesParentBinding(t *testing.T) {
	s := NewStack[int]()
	s.Set("k", 1)
	s.Push()
	s.Set("k", 2)
	s.DeferHoist("k")
	s.Pop()

	v, _ := s.Get("k", false)
	qt.Assert(t, qt.Equals(v, 2))
}

func TestDoubleHoistIsIdempotent(t *testing.T) {
	s := NewStack[int]()
	s.Push()
	s.Set("k", 7)
	s.DeferHoist("k")
	s.DeferHoist("k")
	s.Pop()

	v, ok := s.Get("k", false)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, 7))
}

func TestHoistMissingKeyIsIgnored(t *testing.T) {
	s := NewStack[int]()
	s.Push()
	s.DeferHoist("missing")
	s.Pop()

	_, ok := s.Get("missing", true)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestHoistDrainsEveryQueuedKey(t *testing.T) {
	// Two distinct keys queued in one frame are both moved to the
	// parent when the frame pops.
	s := NewStack[int]()
	s.Push()
	s.Set("a", 1)
	s.Set("b", 2)
	s.DeferHoist("a")
	s.DeferHoist("b")
	s.Pop()

	va, ok := s.Get("a", false)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(va, 1))
	vb, ok := s.Get("b", false)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(vb, 2))
}

func TestEnvironmentHandle(t *testing.T) {
	env := NewEnvironment[int](7)
	qt.Assert(t, qt.Equals(env.ID(), uint64(7)))

	h := env.Handle()
	h.Set("k", 1)
	qt.Assert(t, qt.IsTrue(h.IsSet("k")))

	h.Push()
	h.Set("inner", 2)
	v, ok := h.Get("k", true)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, 1))
	h.Pop()

	_, ok = h.Get("inner", true)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestClosedEnvironmentHandleIsNoOp(t *testing.T) {
	env := NewEnvironment[int](1)
	h := env.Handle()
	h.Set("k", 1)

	env.Close()

	h.Set("x", 2)
	_, ok := h.Get("k", true)
	qt.Assert(t, qt.IsFalse(ok))
	qt.Assert(t, qt.IsFalse(h.IsSet("k")))
	h.Push() // must not deadlock or mutate
	h.Pop()
	h.Drop("k")
	h.DeferHoist("k")
}

func TestManyHandlesOneEnvironment(t *testing.T) {
	env := NewEnvironment[string](3)
	h1 := env.Handle()
	h2 := env.Handle()

	h1.Set("k", "v")
	v, ok := h2.Get("k", false)
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(v, "v"))
}
