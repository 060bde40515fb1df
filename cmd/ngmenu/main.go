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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/walteh/ngmenu/cmd/ngmenu/opts"
	"github.com/walteh/ngmenu/pkg/log"
)

func main() {
	// interrupting an --async add abandons the run before anything is committed
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootOpts := &opts.RootOpts{Out: os.Stdout}
	err := newRootCmd(rootOpts).ExecuteContext(ctx)
	stop()

	if err != nil {
		console := rootOpts.Console
		if console == nil {
			console = log.New(os.Stderr, zerolog.Nop())
		}
		console.Errorf("%v", err)
		os.Exit(1)
	}
}
