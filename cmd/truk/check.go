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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"truklang.org/go/internal/host"
	"truklang.org/go/truk/ast"
	"truklang.org/go/truk/errors"
	"truklang.org/go/truk/parser"
	"truklang.org/go/truk/sema"
)

type checkFlags struct {
	relative bool
	includes []string
}

func newCheckCmd() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "parse and type-check Truk source files",
		Long: `check parses each file and then runs a single semantic pass over
all files that parsed, so cross-file visibility and shard rules apply.
Diagnostics print to stderr as path:offset: message and the exit
status is non-zero if any were produced.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, flags, args)
		},
	}

	addCheckFlags(cmd.Flags(), flags)
	return cmd
}

func addCheckFlags(fs *pflag.FlagSet, flags *checkFlags) {
	fs.BoolVar(&flags.relative, "cwd-relative", false,
		"print file paths relative to the working directory")
	fs.StringArrayVarP(&flags.includes, "include", "I", nil,
		"add an include directory search path")
}

func runCheck(cmd *cobra.Command, flags *checkFlags, args []string) error {
	h, err := host.New()
	if err != nil {
		return err
	}
	for _, dir := range flags.includes {
		h.AddIncludeDir(dir)
	}

	cfg := &errors.Config{}
	if flags.relative {
		cfg.Cwd = h.InitialWorkingDirectory()
	}

	var files []*ast.File
	failed := false
	for _, name := range args {
		f, err := parser.ParseFile(name, nil)
		if err != nil {
			errors.Print(cmd.ErrOrStderr(), err, cfg)
			failed = true
			continue
		}
		files = append(files, f)
	}

	// Semantic checking runs only over the files that parsed; parse
	// diagnostics already fail the build.
	if len(files) > 0 {
		if err := sema.Check(files...); err != nil {
			errors.Print(cmd.ErrOrStderr(), err, cfg)
			failed = true
		}
	}

	if failed {
		return fmt.Errorf("compilation failed")
	}
	return nil
}
