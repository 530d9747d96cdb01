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

// Command obfuscate rewrites an input text so its character n-gram
// distribution drifts away from a target profile, by
// running the best-first search in internal/search over the operators in
// internal/operators. The best candidate found so far is kept on disk at
// --output for the whole run; a caller watching that file sees it replaced
// in place every time the search improves on it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ealvarez/obfuscate/internal/api"
	"github.com/ealvarez/obfuscate/internal/cache"
	"github.com/ealvarez/obfuscate/internal/config"
	"github.com/ealvarez/obfuscate/internal/eventstream"
	"github.com/ealvarez/obfuscate/internal/history"
	"github.com/ealvarez/obfuscate/internal/metrics"
	"github.com/ealvarez/obfuscate/internal/normalize"
	"github.com/ealvarez/obfuscate/internal/operators"
	"github.com/ealvarez/obfuscate/internal/profileio"
	"github.com/ealvarez/obfuscate/internal/search"
	"github.com/ealvarez/obfuscate/internal/sinks"
	"github.com/ealvarez/obfuscate/internal/suggest"
	"github.com/ealvarez/obfuscate/internal/textstate"
	"github.com/ealvarez/obfuscate/pkg/ngram"
)

var opts config.Options

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "obfuscate: build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	root := newRootCmd(sugar)
	if err := root.Execute(); err != nil {
		sugar.Fatalw("obfuscate failed", "error", err)
	}
}

func newRootCmd(sugar *zap.SugaredLogger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "obfuscate",
		Short: "Rewrite text away from a target n-gram profile",
		Long: "obfuscate best-first-searches over a fixed set of text edits, moving the\n" +
			"input's character n-gram distribution away from a target profile, until\n" +
			"the Jensen-Shannon distance between the two reaches a length-scaled goal\n" +
			"threshold.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), sugar)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.InputPath, "input", "i", "", "input text file to obfuscate (required)")
	flags.StringVarP(&opts.OutputPath, "output", "o", "", "output file for the best candidate found so far (required)")
	flags.BoolVarP(&opts.StripPOS, "strip-pos", "s", false, "strip Penn Treebank POS annotations from the input before obfuscating")
	flags.StringVarP(&opts.ProfilePath, "profile", "p", "", "target n-gram profile path; read from unless --profile-source-files is set (required)")
	flags.StringSliceVarP(&opts.ProfileSourceFiles, "profile-source-files", "f", nil, "if set, (re)build the target profile from these files and save it to --profile")
	flags.BoolVar(&opts.ProfileStripPOS, "profile-strip-pos", false, "strip POS annotations from --profile-source-files before building the profile")
	flags.StringVarP(&opts.NetspeakDir, "netspeak", "n", "", "base URL of a Netspeak-compatible phrase-frequency service backing word-replacement/word-removal")
	flags.StringVar(&opts.OpenAIAPIKey, "openai-api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key backing word-replacement/word-removal when --netspeak is not set")
	flags.StringVar(&opts.SynonymDictPath, "synonym-dict", "", "TSV dictionary path for the contextless synonym operator")
	flags.StringVar(&opts.HypernymDictPath, "hypernym-dict", "", "TSV dictionary path for the contextless hypernym operator")
	flags.IntVar(&opts.Order, "order", config.DefaultOrder, "n-gram order")
	flags.Int64Var(&opts.FreeMemoryLimitMB, "free-memory-limit-mb", 0, "abort the search if system free memory drops below this many megabytes")
	flags.IntVar(&opts.StatusUpdateInterval, "status-update-interval", 0, "goal checks between status snapshots")
	flags.StringVar(&opts.StatusAddr, "status-addr", "", "if set, serve /status and /metrics on this address for the run's duration")
	flags.StringVar(&opts.CacheAddr, "cache-addr", "", "if set, back word-replacement/word-removal suggester lookups with a shared Redis cache at this address")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "obfuscate (dev build)")
			return nil
		},
	}
}

func run(ctx context.Context, sugar *zap.SugaredLogger) error {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			sugar.Infow("caught interrupt, requesting shutdown")
			cancel()
		case <-ctx.Done():
		}
	}()

	runID := uuid.NewString()
	sugar = sugar.With("run_id", runID)

	raw, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return fmt.Errorf("obfuscate: read %s: %w", opts.InputPath, err)
	}
	text := string(raw)
	if opts.StripPOS {
		text = normalize.StripPOS(text)
	}
	text = normalize.Text(text)

	target, err := resolveTargetProfile(sugar)
	if err != nil {
		return err
	}

	suggester, err := resolveSuggester()
	if err != nil {
		return err
	}

	ops := operators.BuildDefaultSet(operators.DictionaryPaths{
		Synonym:  opts.SynonymDictPath,
		Hypernym: opts.HypernymDictPath,
	}, suggester)
	operatorNames := make([]string, len(ops))
	for i, op := range ops {
		operatorNames[i] = op.Name()
	}
	metrics.SetOperatorNames(operatorNames)

	sink, err := sinks.NewLayeredFileSink(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("obfuscate: open %s: %w", opts.OutputPath, err)
	}
	defer sink.Close()

	initial := textstate.New([]byte(text), opts.Order)
	sctx := textstate.NewContext(target, len(text), profileio.GoalJSDistance(len(text)))

	engine := search.NewEngine(ops, search.Options{
		StatusUpdateInterval: opts.StatusUpdateInterval,
		FreeMemoryLimitMB:    opts.FreeMemoryLimitMB,
	})
	engine.Logger = sugar
	status := search.NewStatus(len(ops))

	var apiServer *api.Server
	if opts.StatusAddr != "" {
		apiServer = api.NewServer(status, sugar)
		go func() {
			if err := apiServer.ListenAndServe(opts.StatusAddr); err != nil {
				sugar.Warnw("status server exited", "error", err)
			}
		}()
	}

	var publisher *eventstream.Publisher
	if os.Getenv("OBFUSCATE_EVENTSTREAM_LOG") != "" {
		publisher = eventstream.NewPublisher(eventstream.LoggingProducer{
			Log: func(line string) { sugar.Infow(line) },
		}, "obfuscate.status")
	}

	bestJSD := -1.0
	var sequence int64
	callback := func(s *search.Status) {
		metrics.Observe(s)

		node, nodeCtx := s.CurrentNodeAndContext()
		if node == nil {
			return
		}
		jsd, ok := node.State.Meta.CachedJSD()
		if !ok {
			return
		}
		improved := s.HasGoalState.Load() || jsd > bestJSD
		if improved {
			bestJSD = jsd
			if werr := sink.Truncate(); werr != nil {
				sugar.Warnw("truncate sink failed", "error", werr)
			} else if _, werr := sink.Write(node.State.Text.String()); werr != nil {
				sugar.Warnw("write sink failed", "error", werr)
			} else if werr := sink.Flush(); werr != nil {
				sugar.Warnw("flush sink failed", "error", werr)
			}
		}

		if publisher != nil {
			sequence++
			msg := eventstream.StatusMessage{
				RunID:         runID,
				Sequence:      sequence,
				SizeOfOpen:    s.SizeOfOpen.Load(),
				SizeOfClosed:  s.SizeOfClosed.Load(),
				NumGoalChecks: s.NumGoalChecks.Load(),
				CurrentJSDist: search.JSDistance(jsd),
				GoalJSDist:    nodeCtx.Meta.GoalJSDist,
				HasGoalState:  s.HasGoalState.Load(),
				Finished:      s.Finished.Load(),
			}
			if perr := publisher.Publish(ctx, msg); perr != nil {
				sugar.Warnw("publish status failed", "error", perr)
			}
		}
	}

	sugar.Infow("starting search", "input", opts.InputPath, "order", opts.Order, "goal_js_dist", sctx.Meta.GoalJSDist)
	startedAt := time.Now()
	final := engine.Run(ctx, initial, sctx, status, callback)

	if err := finalizeOutput(sink, final, status, bestJSD); err != nil {
		return err
	}

	sugar.Infow("search finished",
		"has_goal_state", status.HasGoalState.Load(),
		"aborted_by_caller", status.AbortedByCaller.Load(),
		"aborted_by_memguard", status.AbortedByMemguard.Load(),
		"runtime_millis", status.RuntimeMillis.Load(),
		"num_goal_checks", status.NumGoalChecks.Load(),
	)

	if err := recordHistory(sugar, runID, opts, startedAt, final, sctx, status); err != nil {
		sugar.Warnw("record history failed", "error", err)
	}

	return nil
}

// finalizeOutput ensures the winning node (which might not have triggered a
// truncate-and-write, e.g. if the search never improved past its first
// candidate) is the one actually left on disk.
func finalizeOutput(sink *sinks.LayeredFileSink, final *search.Node, status *search.Status, bestJSD float64) error {
	if final == nil {
		return nil
	}
	jsd, ok := final.State.Meta.CachedJSD()
	if !ok || jsd < bestJSD {
		return nil
	}
	if err := sink.Truncate(); err != nil {
		return fmt.Errorf("obfuscate: finalize output: %w", err)
	}
	if _, err := sink.Write(final.State.Text.String()); err != nil {
		return fmt.Errorf("obfuscate: finalize output: %w", err)
	}
	return sink.Flush()
}

// recordHistory builds the run's history.Run record and dispatches it per
// OBFUSCATE_HISTORY_ADAPTER: "" or "log" (default) just logs the record;
// "postgres" is not wired in this binary (it would need a driver import
// this command doesn't carry) and returns an error rather than silently
// dropping the record.
func recordHistory(sugar *zap.SugaredLogger, runID string, opts config.Options, startedAt time.Time, final *search.Node, sctx *textstate.Context, status *search.Status) error {
	if final == nil {
		return nil
	}
	jsd, _ := final.State.Meta.CachedJSD()

	term := history.TerminationOpenEmpty
	switch {
	case status.HasGoalState.Load():
		term = history.TerminationGoalReached
	case status.AbortedByCaller.Load() || status.AbortedByMemguard.Load():
		term = history.TerminationAborted
	}

	digest := final.State.Text.HashValue()

	run := history.Run{
		RunID:           runID,
		InputHash:       fmt.Sprintf("%x", digest[:]),
		GoalDistance:    sctx.Meta.GoalJSDist,
		ReachedDistance: search.JSDistance(jsd),
		Opcodes:         opcodePathString(final.PathOpcodes()),
		Termination:     term,
		StartedAt:       startedAt,
		FinishedAt:      time.Now(),
	}

	switch os.Getenv("OBFUSCATE_HISTORY_ADAPTER") {
	case "", "log":
		sugar.Infow("run history", "run_id", run.RunID, "termination", run.Termination, "reached_distance", run.ReachedDistance)
		return nil
	case "postgres":
		return fmt.Errorf("obfuscate: postgres history adapter requires a build with a database/sql driver imported")
	default:
		return fmt.Errorf("obfuscate: unknown OBFUSCATE_HISTORY_ADAPTER %q", os.Getenv("OBFUSCATE_HISTORY_ADAPTER"))
	}
}

func opcodePathString(opcodes []uint8) string {
	b := make([]byte, len(opcodes))
	for i, op := range opcodes {
		b[i] = 'a' + op
	}
	return string(b)
}

func resolveTargetProfile(sugar *zap.SugaredLogger) (*ngram.Profile, error) {
	if len(opts.ProfileSourceFiles) > 0 {
		sugar.Infow("building target profile from source files", "files", opts.ProfileSourceFiles)
		p, err := profileio.BuildFromFiles(opts.ProfileSourceFiles, opts.Order, opts.ProfileStripPOS)
		if err != nil {
			return nil, fmt.Errorf("obfuscate: build target profile: %w", err)
		}
		if err := profileio.Save(opts.ProfilePath, p); err != nil {
			return nil, fmt.Errorf("obfuscate: save target profile: %w", err)
		}
		return p, nil
	}
	p, err := profileio.Load(opts.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("obfuscate: load target profile: %w", err)
	}
	return p, nil
}

// sharedCacheSetter is satisfied by whichever concrete suggester backend
// resolveSuggester picks; suggest.Suggester itself carries no cache-wiring
// method since callers with no --cache-addr shouldn't need to know it exists.
type sharedCacheSetter interface {
	SetSharedCache(*cache.SharedCache)
}

func resolveSuggester() (suggest.Suggester, error) {
	var s suggest.Suggester
	switch {
	case opts.NetspeakDir != "":
		s = suggest.NewNetspeakClient(opts.NetspeakDir)
	case opts.OpenAIAPIKey != "":
		s = suggest.NewChatSuggester(opts.OpenAIAPIKey, "gpt-4o-mini")
	default:
		return nil, nil
	}

	if opts.CacheAddr != "" {
		if setter, ok := s.(sharedCacheSetter); ok {
			setter.SetSharedCache(cache.New(cache.NewGoRedisEvaler(opts.CacheAddr), 0))
		}
	}

	return s, nil
}
