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

// BuiltinKind identifies a builtin function.
type BuiltinKind uint8

const (
	BuiltinNone BuiltinKind = iota
	BuiltinMake
	BuiltinDelete
	BuiltinLen
	BuiltinSizeof
	BuiltinPanic
	BuiltinEach
	BuiltinVaArgI32
	BuiltinVaArgI64
	BuiltinVaArgF64
	BuiltinVaArgPtr
)

// A builtinSig describes the call shape of one builtin: whether a
// leading @Type parameter is mandatory, whether the call is variadic,
// and a builder producing the function-type signature given that type
// parameter. Builtins with fully irregular shapes (make, delete, each)
// have a nil builder and are special-cased by the checker.
type builtinSig struct {
	name           string
	kind           BuiltinKind
	takesTypeParam bool
	variadic       bool
	signature      func(typeParam *Type) *Type
}

func fnSig(params []*Type, result *Type) *Type {
	return &Type{Kind: Function, Name: "function", Params: params, Result: result}
}

var builtinRegistry = []builtinSig{
	{name: "make", kind: BuiltinMake, takesTypeParam: true},
	{name: "delete", kind: BuiltinDelete},
	{name: "len", kind: BuiltinLen, signature: func(*Type) *Type {
		return fnSig([]*Type{sliceOf(typeVoid)}, primitiveTypes["u64"])
	}},
	{name: "sizeof", kind: BuiltinSizeof, takesTypeParam: true, signature: func(*Type) *Type {
		return fnSig(nil, primitiveTypes["u64"])
	}},
	{name: "panic", kind: BuiltinPanic, signature: func(*Type) *Type {
		return fnSig([]*Type{stringType()}, typeVoid)
	}},
	{name: "each", kind: BuiltinEach},
	{name: "__TRUK_VA_ARG_I32", kind: BuiltinVaArgI32, signature: func(*Type) *Type {
		return fnSig(nil, primitiveTypes["i32"])
	}},
	{name: "__TRUK_VA_ARG_I64", kind: BuiltinVaArgI64, signature: func(*Type) *Type {
		return fnSig(nil, primitiveTypes["i64"])
	}},
	{name: "__TRUK_VA_ARG_F64", kind: BuiltinVaArgF64, signature: func(*Type) *Type {
		return fnSig(nil, primitiveTypes["f64"])
	}},
	{name: "__TRUK_VA_ARG_PTR", kind: BuiltinVaArgPtr, signature: func(*Type) *Type {
		return fnSig(nil, nilType())
	}},
}

func lookupBuiltin(name string) *builtinSig {
	for i := range builtinRegistry {
		if builtinRegistry[i].name == name {
			return &builtinRegistry[i]
		}
	}
	return nil
}
