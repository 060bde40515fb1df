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

package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

var _ Operation = (*AddOperation)(nil)

// ➕ AddOperation adds the responsive menu to a project. With DryRun set the
// changes are only planned; Report holds the outcome either way.
type AddOperation struct {
	Operator Operator
	Options  Options
	DryRun   bool

	Report *Report
}

func (o *AddOperation) Execute(ctx context.Context) error {
	var err error
	if o.DryRun {
		o.Report, err = o.Operator.Plan(ctx, o.Options)
	} else {
		o.Report, err = o.Operator.Run(ctx, o.Options)
	}
	return err
}

// 🏃 OperationRunner executes operations, in the foreground or in a
// goroutine that can be abandoned on cancellation
type OperationRunner struct {
	logger *zerolog.Logger
	async  bool
}

// 🏗️ NewRunner creates a runner. A nil logger keeps the one on the context.
func NewRunner(logger *zerolog.Logger, async bool) *OperationRunner {
	return &OperationRunner{
		logger: logger,
		async:  async,
	}
}

// 🏃 Run executes op. An async run returns as soon as ctx is cancelled,
// without waiting for op. op sees the same context, so no further step or
// commit starts after cancellation; a commit already writing is not
// interrupted.
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	if r.logger != nil {
		ctx = r.logger.WithContext(ctx)
	}

	start := time.Now()
	var err error
	if r.async {
		err = r.runAsync(ctx, op)
	} else {
		err = r.execute(ctx, op)
	}

	zerolog.Ctx(ctx).Debug().
		Bool("async", r.async).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("operation finished")
	return err
}

func (r *OperationRunner) execute(ctx context.Context, op Operation) error {
	if err := op.Execute(ctx); err != nil {
		return errors.Errorf("executing operation: %w", err)
	}
	return nil
}

// ⚡ runAsync races op against ctx
func (r *OperationRunner) runAsync(ctx context.Context, op Operation) error {
	result := make(chan error, 1)
	go func() {
		result <- r.execute(ctx, op)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		zerolog.Ctx(ctx).Warn().Err(ctx.Err()).Msg("operation cancelled")
		return errors.Errorf("operation cancelled: %w", ctx.Err())
	}
}
