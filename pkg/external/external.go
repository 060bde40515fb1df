// Copyright 2025 walteh LLC
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

// Package external runs third-party Angular schematics.
package external

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	BootstrapCollection = "cap-angular-schematic-bootstrap"
	AuthCollection      = "cap-angular-schematic-auth-auth0"
	NgAddSchematic      = "ng-add"
)

// Invocation is one external schematic run
type Invocation struct {
	Collection string
	Schematic  string
	Options    map[string]string
}

// Bootstrap returns the UI bootstrap add-on invocation
func Bootstrap(version string) Invocation {
	return Invocation{
		Collection: BootstrapCollection,
		Schematic:  NgAddSchematic,
		Options:    map[string]string{"version": version},
	}
}

// Auth returns the authentication add-on invocation
func Auth(project string) Invocation {
	opts := map[string]string{}
	if project != "" {
		opts["project"] = project
	}
	return Invocation{Collection: AuthCollection, Schematic: NgAddSchematic, Options: opts}
}

// Target is the "collection:schematic" name passed to ng generate
func (i Invocation) Target() string {
	return i.Collection + ":" + i.Schematic
}

// Args renders the invocation as ng generate arguments, options sorted by key
func (i Invocation) Args() []string {
	keys := make([]string, 0, len(i.Options))
	for k := range i.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := []string{i.Target()}
	for _, k := range keys {
		args = append(args, fmt.Sprintf("--%s=%s", k, i.Options[k]))
	}
	return args
}

func (i Invocation) String() string {
	return "ng generate " + strings.Join(i.Args(), " ")
}

// Runner runs external schematics
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

var (
	_ Runner = (*ExecRunner)(nil)
	_ Runner = (*RecordingRunner)(nil)
)

// DefaultCommand is the command prefix used by ExecRunner
var DefaultCommand = []string{"npx", "ng", "generate"}

// 🚀 ExecRunner runs schematics through the Angular CLI
type ExecRunner struct {
	Dir     string   // project directory
	Command []string // defaults to DefaultCommand
	Stdout  io.Writer
	Stderr  io.Writer
}

// newExecCommand creates an exec.Cmd for testability
var newExecCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

func (r *ExecRunner) Run(ctx context.Context, inv Invocation) error {
	logger := zerolog.Ctx(ctx)

	command := r.Command
	if len(command) == 0 {
		command = DefaultCommand
	}
	args := append(append([]string{}, command[1:]...), inv.Args()...)

	cmd := newExecCommand(ctx, command[0], args...)
	cmd.Dir = r.Dir

	var stderr bytes.Buffer
	cmd.Stdout = r.Stdout
	cmd.Stderr = &stderr
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Stderr)
	}

	logger.Debug().Str("dir", r.Dir).Strs("args", cmd.Args).Msg("running external schematic")
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return errors.Errorf("running %s: %w: %s", inv.Target(), err, msg)
		}
		return errors.Errorf("running %s: %w", inv.Target(), err)
	}
	return nil
}

// 📼 RecordingRunner records invocations without running anything
type RecordingRunner struct {
	mu          sync.Mutex
	invocations []Invocation
}

func (r *RecordingRunner) Run(ctx context.Context, inv Invocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	zerolog.Ctx(ctx).Debug().Str("invocation", inv.String()).Msg("recorded external schematic")
	r.invocations = append(r.invocations, inv)
	return nil
}

// Invocations returns everything recorded so far
func (r *RecordingRunner) Invocations() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Invocation(nil), r.invocations...)
}
