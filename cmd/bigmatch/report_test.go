package main

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf, reportHeader{
		Hostname:              "unit-test-host",
		CommandLine:           "bigmatch pattern.bg target.bg",
		StartedAt:             "2026-08-25 12:00:00",
		PatternFile:           "pattern.bg",
		TargetFile:            "target.bg",
		AutomorphismGroupSize: "6",
	})
	goldie.New(t).Assert(t, "header_full", buf.Bytes())
}

func TestWriteHeaderMinimal(t *testing.T) {
	var buf bytes.Buffer
	writeHeader(&buf, reportHeader{
		CommandLine: "bigmatch pattern.bg target.bg",
		StartedAt:   "2026-08-25 12:00:00",
	})
	goldie.New(t).Assert(t, "header_minimal", buf.Bytes())
}

func TestWriteFooterDecision(t *testing.T) {
	var buf bytes.Buffer
	writeFooter(&buf, reportFooter{
		Status:       "true",
		Nodes:        12,
		Propagations: 34,
		Mapping:      "(a -> x) (b -> y)",
		RuntimeMS:    5,
		Extra:        []string{"restarts = 0"},
	})
	goldie.New(t).Assert(t, "footer_decision", buf.Bytes())
}

func TestWriteFooterCounting(t *testing.T) {
	var buf bytes.Buffer
	writeFooter(&buf, reportFooter{
		Status:         "true",
		CountSolutions: true,
		SolutionCount:  24,
		Nodes:          100,
		Propagations:   200,
		RuntimeMS:      12,
	})
	goldie.New(t).Assert(t, "footer_counting", buf.Bytes())
}

func TestWriteFooterAborted(t *testing.T) {
	var buf bytes.Buffer
	writeFooter(&buf, reportFooter{
		Status:       "aborted",
		Nodes:        100000,
		Propagations: 250000,
		RuntimeMS:    10003,
		Extra:        []string{"restarts = 17"},
	})
	goldie.New(t).Assert(t, "footer_aborted", buf.Bytes())
}
