// Command bigmatch decides, counts, or enumerates injective induced
// homomorphisms from a pattern bigraph into a target bigraph, printing a
// key = value result report. Exit status is 0 for any completed run
// (found, not found, or aborted) and 1 for configuration or file errors.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/gitrdm/bigmatch/internal/formats"
	"github.com/gitrdm/bigmatch/pkg/homomorphism"
)

type options struct {
	timeoutSeconds int
	parallel       bool

	countSolutions    bool
	printAllSolutions bool

	restarts            string
	lubyConstant        uint64
	geometricConstant   float64
	geometricMultiplier float64
	restartInterval     int
	restartMinimum      uint64

	valueOrdering string

	threads             int
	triggeredRestarts   bool
	delayThreadCreation bool

	patternLessThans      []string
	automorphismGroupSize string

	sendToLackey      string
	receiveFromLackey string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "bigmatch [flags] pattern-file target-file",
		Short:         "Find injective homomorphisms between bigraphs",
		Long: `bigmatch searches for structure-preserving mappings from a pattern
bigraph into a target bigraph. Mappings are injective and induced: both
the containment and the connectivity layer must preserve adjacency and
non-adjacency. Results are reported as key = value lines on stdout.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], args[1])
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&opts.timeoutSeconds, "timeout", 0, "Abort after this many seconds")
	fl.BoolVar(&opts.parallel, "parallel", false, "Use auto-configured parallel search (highly nondeterministic runtimes)")
	fl.BoolVar(&opts.countSolutions, "count-solutions", false, "Count the number of solutions")
	fl.BoolVar(&opts.printAllSolutions, "print-all-solutions", false, "Print out every solution, rather than one")
	fl.StringVar(&opts.restarts, "restarts", "", "Specify restart policy (luby / geometric / timed / none)")
	fl.Uint64Var(&opts.lubyConstant, "luby-constant", 0, "Specify the multiplier for Luby restarts")
	fl.Float64Var(&opts.geometricConstant, "geometric-constant", 0, "Specify starting constant for geometric restarts")
	fl.Float64Var(&opts.geometricMultiplier, "geometric-multiplier", 0, "Specify multiplier for geometric restarts")
	fl.IntVar(&opts.restartInterval, "restart-interval", 0, "Specify the restart interval in milliseconds for timed restarts")
	fl.Uint64Var(&opts.restartMinimum, "restart-minimum", 0, "Specify a minimum number of backtracks before a timed restart can trigger")
	fl.StringVar(&opts.valueOrdering, "value-ordering", "", "Specify value-ordering heuristic (biased / degree / antidegree / random)")
	fl.IntVar(&opts.threads, "threads", 0, "Use threaded search, with this many threads (0 to auto-detect)")
	fl.BoolVar(&opts.triggeredRestarts, "triggered-restarts", false, "Have one thread trigger restarts (more nondeterminism, better performance)")
	fl.BoolVar(&opts.delayThreadCreation, "delay-thread-creation", false, "Do not create threads until after the first restart")
	fl.StringArrayVar(&opts.patternLessThans, "pattern-less-than", nil, "Specify a pattern less than constraint, in the form v<w")
	fl.StringVar(&opts.automorphismGroupSize, "pattern-automorphism-group-size", "", "Specify the size of the pattern graph automorphism group")
	fl.StringVar(&opts.sendToLackey, "send-to-lackey", "", "Send candidate solutions to an external solver over this named pipe")
	fl.StringVar(&opts.receiveFromLackey, "receive-from-lackey", "", "Receive responses from external solver over this named pipe")

	return cmd
}

// restartPolicy mirrors the historical defaults: counting gets no
// restarts, parallel search gets timed restarts, everything else Luby.
func restartPolicy(opts *options, counting bool) (homomorphism.RestartPolicy, error) {
	if opts.restarts == "" {
		switch {
		case counting:
			return homomorphism.RestartPolicy{Kind: homomorphism.RestartsNone}, nil
		case opts.parallel:
			return homomorphism.RestartPolicy{Kind: homomorphism.RestartsTimed}, nil
		default:
			return homomorphism.RestartPolicy{Kind: homomorphism.RestartsLuby}, nil
		}
	}

	kind, err := homomorphism.ParseRestartPolicyKind(opts.restarts)
	if err != nil {
		return homomorphism.RestartPolicy{}, err
	}
	return homomorphism.RestartPolicy{
		Kind:                kind,
		LubyMultiplier:      opts.lubyConstant,
		GeometricInitial:    opts.geometricConstant,
		GeometricMultiplier: opts.geometricMultiplier,
		Interval:            time.Duration(opts.restartInterval) * time.Millisecond,
		MinimumBacktracks:   opts.restartMinimum,
	}, nil
}

func run(cmd *cobra.Command, opts *options, patternFile, targetFile string) error {
	w := cmd.OutOrStdout()
	counting := opts.countSolutions || opts.printAllSolutions

	policy, err := restartPolicy(opts, counting)
	if err != nil {
		return err
	}

	ordering := homomorphism.OrderBiased
	if opts.valueOrdering != "" {
		if ordering, err = homomorphism.ParseValueOrdering(opts.valueOrdering); err != nil {
			return err
		}
	}

	var lessThans [][2]string
	for _, s := range opts.patternLessThans {
		a, b, err := homomorphism.ParseLessThan(s)
		if err != nil {
			return err
		}
		lessThans = append(lessThans, [2]string{a, b})
	}

	if (opts.sendToLackey == "") != (opts.receiveFromLackey == "") {
		return errors.New("must specify both of --send-to-lackey and --receive-from-lackey")
	}

	hostname, _ := os.Hostname()
	writeHeader(w, reportHeader{
		Hostname:    hostname,
		CommandLine: strings.Join(os.Args, " "),
		StartedAt:   time.Now().Format("2006-01-02 15:04:05"),
	})

	pattern, err := formats.LoadBigraph(patternFile)
	if err != nil {
		return err
	}
	target, err := formats.LoadBigraph(targetFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "pattern_file = %s\n", patternFile)
	fmt.Fprintf(w, "target_file = %s\n", targetFile)
	if opts.automorphismGroupSize != "" {
		fmt.Fprintf(w, "pattern_automorphism_group_size = %s\n", opts.automorphismGroupSize)
	}

	symmetry, err := homomorphism.ResolveSymmetryConstraints(lessThans, pattern)
	if err != nil {
		return err
	}

	timeout := homomorphism.NewTimeout(time.Duration(opts.timeoutSeconds) * time.Second)

	var lackey homomorphism.Lackey
	if opts.sendToLackey != "" {
		pl, err := homomorphism.NewPipeLackey(opts.sendToLackey, opts.receiveFromLackey, pattern, target, timeout)
		if err != nil {
			return err
		}
		defer pl.Close()
		lackey = pl
	}

	threads := 1
	switch {
	case cmd.Flags().Changed("threads"):
		threads = opts.threads
	case opts.parallel:
		threads = 0
	}

	params := homomorphism.Params{
		Induced:             true,
		CountSolutions:      opts.countSolutions,
		Restarts:            policy,
		ValueOrdering:       ordering,
		Symmetry:            symmetry,
		Threads:             threads,
		TriggeredRestarts:   opts.triggeredRestarts || opts.parallel,
		DelayThreadCreation: opts.delayThreadCreation || opts.parallel,
		Lackey:              lackey,
		Timeout:             timeout,
		StartTime:           time.Now(),
		RandomSeed:          time.Now().UnixNano(),
	}
	if opts.printAllSolutions {
		params.Enumerate = func(m homomorphism.Mapping) {
			fmt.Fprintf(w, "mapping = %s\n", m.Format(pattern, target))
		}
	}

	started := time.Now()
	result, err := homomorphism.Solve(pattern, target, params)
	if err != nil {
		return err
	}

	footer := reportFooter{
		Status:         result.Status.String(),
		CountSolutions: counting,
		SolutionCount:  result.SolutionCount,
		Nodes:          result.Nodes,
		Propagations:   result.Propagations,
		RuntimeMS:      time.Since(started).Milliseconds(),
		Extra:          result.Extra,
	}
	if result.Mapping != nil && !opts.printAllSolutions {
		footer.Mapping = result.Mapping.Format(pattern, target)
	}
	writeFooter(w, footer)
	return nil
}

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{FileNameCharWidth: 16})
	defer klog.Flush()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		klog.Flush()
		os.Exit(1)
	}
}
