package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Operative-001/sidelen/internal/decoder"
	"github.com/Operative-001/sidelen/internal/solver"
)

func TestCollectorCountsExtractions(t *testing.T) {
	c := New(prometheus.NewRegistry(), false)

	c.ChunkExtracted(solver.FieldSSID, decoder.Stats{
		TagFound: true, Produced: true,
		Chunks: 4, EmptyChunks: 1, SpammedChunks: 2, MaxChunkSpam: 3,
		SpammedSeparators: 1, MaxSeparatorSpam: 2,
	})
	c.ChunkExtracted(solver.FieldSSID, decoder.Stats{TagFound: true, MaxChunkSpam: 1})
	c.ChunkExtracted(solver.FieldPassphrase, decoder.Stats{})

	if got := testutil.ToFloat64(c.extractionsTotal.WithLabelValues("SSID", resultChunk)); got != 1 {
		t.Fatalf("chunk extractions = %v", got)
	}
	if got := testutil.ToFloat64(c.extractionsTotal.WithLabelValues("SSID", resultNoChunk)); got != 1 {
		t.Fatalf("no-chunk extractions = %v", got)
	}
	if got := testutil.ToFloat64(c.extractionsTotal.WithLabelValues("passphrase", resultNoTag)); got != 1 {
		t.Fatalf("no-tag extractions = %v", got)
	}
	if got := testutil.ToFloat64(c.chunksTotal.WithLabelValues("SSID")); got != 4 {
		t.Fatalf("chunks = %v", got)
	}
	// A smaller later maximum does not lower the gauge.
	if got := testutil.ToFloat64(c.maxChunkSpam.WithLabelValues("SSID")); got != 3 {
		t.Fatalf("max chunk spam = %v", got)
	}
	if got := testutil.ToFloat64(c.maxSeparatorSpam.WithLabelValues("SSID")); got != 2 {
		t.Fatalf("max separator spam = %v", got)
	}
}

func TestCollectorWithAnalyzer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg, false)
	a := decoder.NewAnalyzer(decoder.Config{Recorder: c})

	a.Process("s", "d", 100)
	a.Process("s", "d", 120) // separator-sized pair: one hypothesis

	if got := testutil.ToFloat64(c.framesTotal); got != 2 {
		t.Fatalf("frames = %v", got)
	}
	if got := testutil.ToFloat64(c.hypothesesTotal); got != 1 {
		t.Fatalf("hypotheses = %v", got)
	}
	if n, err := testutil.GatherAndCount(reg, "sidelen_frames_total"); err != nil || n != 1 {
		t.Fatalf("gather: n=%d err=%v", n, err)
	}
}

func TestCollectorSolves(t *testing.T) {
	c := New(prometheus.NewRegistry(), false)
	c.FieldSolved(solver.FieldSSID)
	c.FieldSolved(solver.FieldPassphrase)
	c.LinkSolved(decoder.Link{Source: "a", Destination: "b"})

	if got := testutil.ToFloat64(c.fieldsSolvedTotal.WithLabelValues("passphrase")); got != 1 {
		t.Fatalf("passphrase solves = %v", got)
	}
	if got := testutil.ToFloat64(c.linksSolvedTotal); got != 1 {
		t.Fatalf("links solved = %v", got)
	}
	if testutil.ToFloat64(c.lastSolve) == 0 {
		t.Fatal("last solve timestamp not set")
	}
}
