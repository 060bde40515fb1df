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
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/walteh/ngmenu/cmd/ngmenu/opts"
	"github.com/walteh/ngmenu/pkg/config"
	"github.com/walteh/ngmenu/pkg/templates"
	"gitlab.com/tozd/go/errors"
)

// VersionInfo describes the binary and the generator content it embeds
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Revision  string `json:"revision,omitempty"`
	Time      string `json:"time,omitempty"`
	Modified  bool   `json:"modified"`

	BootstrapAddOn string `json:"bootstrap_add_on"`
	Templates      int    `json:"templates"`
}

// GetVersionInfo reads the build info of the running binary
func GetVersionInfo() *VersionInfo {
	bi, _ := debug.ReadBuildInfo()
	info := versionFromBuildInfo(bi)

	if exp, err := templates.NewEmbeddedExpander(); err == nil {
		if files, err := exp.Files(); err == nil {
			info.Templates = len(files)
		}
	}
	return info
}

func versionFromBuildInfo(bi *debug.BuildInfo) *VersionInfo {
	info := &VersionInfo{
		Version:        "dev",
		GoVersion:      runtime.Version(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		BootstrapAddOn: config.DefaultBootstrapVersion,
	}
	if bi == nil {
		return info
	}

	// go run and go test report "(devel)"
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.time":
			info.Time = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// FormatVersion renders info for the terminal
func FormatVersion(info *VersionInfo) string {
	revision := info.Revision
	if revision == "" {
		revision = "unknown"
	}
	if info.Modified {
		revision += " (modified)"
	}
	return fmt.Sprintf(`🚀 ngmenu version info:
Version:    %s
Revision:   %s
Built:      %s
Go:         %s
Platform:   %s
Bootstrap:  %s (default add-on version)
Templates:  %d embedded files
`, info.Version, revision, info.Time, info.GoVersion, info.Platform, info.BootstrapAddOn, info.Templates)
}

func newVersionCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := GetVersionInfo()
			if !asJSON {
				rootOpts.Console.Raw(FormatVersion(info))
				return nil
			}

			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return errors.Errorf("encoding version info: %w", err)
			}
			rootOpts.Console.Raw(string(data) + "\n")
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the version info as JSON")
	return cmd
}
