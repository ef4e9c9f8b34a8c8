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

// Package errors defines shared types for handling Truk errors.
//
// The pivotal error type in Truk packages is the interface type Error,
// which carries the source position a diagnostic refers to. Diagnostics
// accumulate in lists; a list never aborts the pass that produced it.
package errors

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"truklang.org/go/truk/token"
)

// New is a convenience wrapper for errors.New in the core library.
// It does not return a Truk error.
func New(msg string) error {
	return errors.New(msg)
}

// Unwrap returns the result of calling the Unwrap method on err, if err
// implements Unwrap. Otherwise, Unwrap returns nil.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches the type to which
// target points, and if so, sets the target to its value and returns
// true.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// A Message implements the error interface and carries an unformatted
// message with its arguments, so that consumers can reformat it.
type Message struct {
	format string
	args   []interface{}
}

// NewMessagef creates an error message for human consumption. The passed
// argument list should not be modified.
func NewMessagef(format string, args ...interface{}) Message {
	if false {
		// Let go vet know that we're expecting printf-like arguments.
		_ = fmt.Sprintf(format, args...)
	}
	return Message{format: format, args: args}
}

// Msg returns a printf-style format string and its arguments for human
// consumption.
func (m *Message) Msg() (format string, args []interface{}) {
	return m.format, m.args
}

func (m *Message) Error() string {
	return fmt.Sprintf(m.format, m.args...)
}

// Error is the common error message.
type Error interface {
	// Position returns the primary position of an error. If multiple
	// positions contribute equally, this reflects one of them.
	Position() token.Pos

	// Error reports the error message without position information.
	Error() string

	// Msg returns the unformatted error message and its arguments for
	// human consumption.
	Msg() (format string, args []interface{})
}

// Newf creates an Error with the associated position and message.
func Newf(p token.Pos, format string, args ...interface{}) Error {
	return &posError{
		pos:     p,
		Message: NewMessagef(format, args...),
	}
}

// Promote converts a regular Go error to an Error if it isn't already
// one.
func Promote(err error, msg string) Error {
	switch x := err.(type) {
	case Error:
		return x
	default:
		if msg == "" {
			return Newf(token.NoPos, "%v", err)
		}
		return Newf(token.NoPos, "%s: %v", msg, err)
	}
}

var _ Error = &posError{}

// In a List, an error is represented by a *posError. The position pos,
// if valid, points to the beginning of the offending token, and the
// error condition is described by Message.
type posError struct {
	pos token.Pos
	Message
}

func (e *posError) Position() token.Pos { return e.pos }

// Append combines two errors, flattening Lists as necessary.
func Append(a, b Error) Error {
	switch x := a.(type) {
	case nil:
		return b
	case List:
		return appendToList(x, b)
	}
	// Preserve order of errors.
	return appendToList(List{a}, b)
}

// Errors reports the individual errors associated with an error, which is
// the error itself if there is only one or, if the underlying type is
// List, its individual elements. If the given error is not an Error, it
// will be promoted to one.
func Errors(err error) []Error {
	if err == nil {
		return nil
	}
	var listErr List
	var errorErr Error
	switch {
	case As(err, &listErr):
		return listErr
	case As(err, &errorErr):
		return []Error{errorErr}
	default:
		return []Error{Promote(err, "")}
	}
}

func appendToList(a List, err Error) List {
	switch x := err.(type) {
	case nil:
		return a
	case List:
		if len(a) == 0 {
			return x
		}
		for _, e := range x {
			a = appendToList(a, e)
		}
		return a
	default:
		for _, e := range a {
			if e == err {
				return a
			}
		}
		return append(a, err)
	}
}

// A List is a list of Errors.
// The zero value for a List is an empty list ready to use.
type List []Error

func (p List) Is(target error) bool {
	for _, e := range p {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}

func (p List) As(target interface{}) bool {
	for _, e := range p {
		if errors.As(e, target) {
			return true
		}
	}
	return false
}

// AddNewf adds an Error with given position and error message to a List.
func (p *List) AddNewf(pos token.Pos, msg string, args ...interface{}) {
	err := &posError{pos: pos, Message: Message{format: msg, args: args}}
	*p = append(*p, err)
}

// Add adds an Error with given position and error message to a List.
func (p *List) Add(err Error) {
	*p = appendToList(*p, err)
}

// Reset resets a List to no errors.
func (p *List) Reset() { *p = (*p)[:0] }

// Len reports the number of errors in the list.
func (p List) Len() int { return len(p) }

// Sort sorts a List. Entries are sorted by position; entries with equal
// positions are sorted by error message.
func (p List) Sort() {
	slices.SortFunc(p, func(a, b Error) int {
		if c := comparePos(a.Position(), b.Position()); c != 0 {
			return c
		}
		return cmp.Compare(a.Error(), b.Error())
	})
}

// comparePos wraps token.Pos.Compare to place token.NoPos first.
func comparePos(a, b token.Pos) int {
	if a == b {
		return 0
	} else if a == token.NoPos {
		return -1
	} else if b == token.NoPos {
		return +1
	}
	return a.Compare(b)
}

// RemoveMultiples sorts a List and removes adjacent duplicates: errors
// with the same position and the same message, or with the same message
// where either position is token.NoPos.
func (p *List) RemoveMultiples() {
	p.Sort()
	*p = slices.CompactFunc(*p, approximateEqual)
}

func approximateEqual(a, b Error) bool {
	aPos := a.Position()
	bPos := b.Position()
	if aPos == token.NoPos || bPos == token.NoPos {
		return a.Error() == b.Error()
	}
	return comparePos(aPos, bPos) == 0 && a.Error() == b.Error()
}

// Sanitize sorts multiple errors and removes duplicates on a best effort
// basis. If err represents a single or no error, it returns the error as
// is.
func Sanitize(err Error) Error {
	if err == nil {
		return nil
	}
	if l, ok := err.(List); ok {
		a := l.sanitize()
		if len(a) == 1 {
			return a[0]
		}
		return a
	}
	return err
}

func (p List) sanitize() List {
	if p == nil {
		return p
	}
	a := slices.Clone(p)
	a.RemoveMultiples()
	return a
}

// A List implements the error interface.
func (p List) Error() string {
	format, args := p.Msg()
	return fmt.Sprintf(format, args...)
}

// Msg reports the unformatted error message for the first error, if any.
func (p List) Msg() (format string, args []interface{}) {
	switch len(p) {
	case 0:
		return "no errors", nil
	case 1:
		return p[0].Msg()
	}
	return "%s (and %d more errors)", []interface{}{p[0], len(p) - 1}
}

// Position reports the primary position for the first error, if any.
func (p List) Position() token.Pos {
	if len(p) == 0 {
		return token.NoPos
	}
	return p[0].Position()
}

// Err returns an error equivalent to this error list.
// If the list is empty, Err returns nil.
func (p List) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// A Config defines parameters for printing.
type Config struct {
	// Format formats the given string and arguments and writes it to w.
	// It is used for all printing.
	Format func(w io.Writer, format string, args ...interface{})

	// Cwd is the current working directory. Filename positions are taken
	// relative to this path.
	Cwd string
}

var zeroConfig = &Config{}

// Print is a utility function that prints a list of errors to w, one
// error per line, if the err parameter is a List. Otherwise it prints
// the err string. Each diagnostic renders as "path:offset: message",
// with the byte offset into the source buffer.
func Print(w io.Writer, err error, cfg *Config) {
	if cfg == nil {
		cfg = zeroConfig
	}
	for _, e := range List(Errors(err)).sanitize() {
		printError(w, e, cfg)
	}
}

// Details is a convenience wrapper for Print to return the error text as
// a string.
func Details(err error, cfg *Config) string {
	var b strings.Builder
	Print(&b, err, cfg)
	return b.String()
}

func defaultFprintf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

func printError(w io.Writer, err Error, cfg *Config) {
	if err == nil {
		return
	}
	fprintf := cfg.Format
	if fprintf == nil {
		fprintf = defaultFprintf
	}

	pos := err.Position()
	if pos.IsValid() {
		path := relPath(pos.Filename(), cfg)
		fprintf(w, "%s:%d: ", path, pos.Offset())
	}
	fprintf(w, "%s\n", err.Error())
}

func relPath(path string, cfg *Config) string {
	if cfg.Cwd != "" {
		if p, err := filepath.Rel(cfg.Cwd, path); err == nil {
			path = p
		}
	}
	return path
}
