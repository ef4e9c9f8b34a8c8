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

// Package host probes the platform the driver runs on: the platform
// tag, the initial working directory, and the include-directory search
// paths contributed to a build.
package host

import (
	"fmt"
	"os"
	"runtime"
)

// Platform is the host platform tag.
type Platform string

const (
	Windows Platform = "windows"
	MacOS   Platform = "macos"
	Linux   Platform = "linux"
)

// A Host captures the probe results at construction time.
type Host struct {
	platform   Platform
	initialCwd string
	includeSet map[string]bool
	includes   []string
}

// New probes the current platform. It fails on platforms the toolchain
// does not target.
func New() (*Host, error) {
	var p Platform
	switch runtime.GOOS {
	case "windows":
		p = Windows
	case "darwin":
		p = MacOS
	case "linux":
		p = Linux
	default:
		return nil, fmt.Errorf("unsupported platform %q", runtime.GOOS)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &Host{platform: p, initialCwd: cwd, includeSet: make(map[string]bool)}, nil
}

// Platform returns the platform tag.
func (h *Host) Platform() Platform { return h.platform }

// InitialWorkingDirectory returns the working directory captured when
// the host was probed.
func (h *Host) InitialWorkingDirectory() string { return h.initialCwd }

// AddIncludeDir registers an include-directory search path; duplicates
// are ignored.
func (h *Host) AddIncludeDir(path string) {
	if h.includeSet[path] {
		return
	}
	h.includeSet[path] = true
	h.includes = append(h.includes, path)
}

// IncludeDirs returns the registered include directories in insertion
// order.
func (h *Host) IncludeDirs() []string { return h.includes }
