package main

import (
	"fmt"
	"io"
)

// The result report is a sequence of "key = value" lines, one property per
// line, in a fixed order. The header is printed before the search starts;
// enumerated mappings stream between header and footer; the footer closes
// the run.

type reportHeader struct {
	Hostname    string
	CommandLine string
	StartedAt   string
	PatternFile string
	TargetFile  string

	// AutomorphismGroupSize is printed only when it was supplied.
	AutomorphismGroupSize string
}

func writeHeader(w io.Writer, h reportHeader) {
	if h.Hostname != "" {
		fmt.Fprintf(w, "hostname = %s\n", h.Hostname)
	}
	fmt.Fprintf(w, "commandline = %s\n", h.CommandLine)
	fmt.Fprintf(w, "started_at = %s\n", h.StartedAt)
	if h.PatternFile != "" {
		fmt.Fprintf(w, "pattern_file = %s\n", h.PatternFile)
	}
	if h.TargetFile != "" {
		fmt.Fprintf(w, "target_file = %s\n", h.TargetFile)
	}
	if h.AutomorphismGroupSize != "" {
		fmt.Fprintf(w, "pattern_automorphism_group_size = %s\n", h.AutomorphismGroupSize)
	}
}

type reportFooter struct {
	Status         string
	CountSolutions bool
	SolutionCount  uint64
	Nodes          uint64
	Propagations   uint64

	// Mapping is the pre-formatted "(a -> x) " pair list; empty when no
	// single mapping is reported.
	Mapping string

	RuntimeMS int64
	Extra     []string
}

func writeFooter(w io.Writer, f reportFooter) {
	fmt.Fprintf(w, "status = %s\n", f.Status)
	if f.CountSolutions {
		fmt.Fprintf(w, "solution_count = %d\n", f.SolutionCount)
	}
	fmt.Fprintf(w, "nodes = %d\n", f.Nodes)
	fmt.Fprintf(w, "propagations = %d\n", f.Propagations)
	if f.Mapping != "" {
		fmt.Fprintf(w, "mapping = %s\n", f.Mapping)
	}
	fmt.Fprintf(w, "runtime = %d\n", f.RuntimeMS)
	for _, line := range f.Extra {
		fmt.Fprintln(w, line)
	}
}
