package main

import (
	"math"
	"strings"
	"testing"

	"github.com/McDic/pokercraft-local/internal/luck"
)

func TestAccumulateSamples(t *testing.T) {
	input := strings.Join([]string{
		"0.8,1",
		"0.8,1",
		"0.8,0",
	}, "\n")

	scorer := luck.NewScorer()
	dropped, err := accumulateSamples(strings.NewReader(input), scorer, func(int, error) {
		t.Error("no sample should be dropped")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if scorer.Len() != 3 {
		t.Errorf("accumulated %d samples, want 3", scorer.Len())
	}
	if got := scorer.Surplus(); math.Abs(got-(-0.4)) > 1e-12 {
		t.Errorf("surplus = %v, want -0.4", got)
	}
}

func TestAccumulateSamplesDropsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"0.5,1",
		"oops,1", // unparsable equity
		"0.5,xy", // unparsable outcome
		"1.5,1",  // invalid equity range
		"0.5,0",
	}, "\n")

	var droppedLines []int
	scorer := luck.NewScorer()
	dropped, err := accumulateSamples(strings.NewReader(input), scorer, func(line int, err error) {
		if err == nil {
			t.Error("onDrop called without an error")
		}
		droppedLines = append(droppedLines, line)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
	if scorer.Len() != 2 {
		t.Errorf("accumulated %d samples, want 2", scorer.Len())
	}
	if len(droppedLines) != 3 || droppedLines[0] != 2 || droppedLines[2] != 4 {
		t.Errorf("dropped lines = %v, want [2 3 4]", droppedLines)
	}
}

func TestAccumulateSamplesMalformedCSV(t *testing.T) {
	scorer := luck.NewScorer()
	_, err := accumulateSamples(strings.NewReader("0.5,1,extra\n"), scorer, func(int, error) {})
	if err == nil {
		t.Error("wrong field count should surface a read error")
	}
}
