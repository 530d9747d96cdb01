// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
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

// Command profile-gen builds a portable n-gram profile from a corpus of
// source files and writes it to disk, so the same target profile can be
// reused across many obfuscate runs instead of being rebuilt from
// --profile-source-files every time.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ealvarez/obfuscate/internal/config"
	"github.com/ealvarez/obfuscate/internal/profileio"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "profile-gen: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		out      string
		order    int
		stripPOS bool
	)

	cmd := &cobra.Command{
		Use:   "profile-gen [files...]",
		Short: "Build an n-gram profile from a corpus and save it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("--output is required")
			}
			if order <= 0 {
				order = config.DefaultOrder
			}

			start := time.Now()
			p, err := profileio.BuildFromFiles(args, order, stripPOS)
			if err != nil {
				return fmt.Errorf("build profile: %w", err)
			}
			if err := profileio.Save(out, p); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "profile-gen: wrote %s (order=%d, %d distinct n-grams, %d total, %s)\n",
				out, order, p.Size(), p.N(), time.Since(start).Truncate(time.Millisecond))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&out, "output", "o", "", "path to write the profile to (required)")
	flags.IntVar(&order, "order", config.DefaultOrder, "n-gram order")
	flags.BoolVar(&stripPOS, "strip-pos", false, "strip Penn Treebank POS annotations from the source files before profiling")

	return cmd
}
