// Package metrics exports decoder diagnostics as Prometheus metrics.
package metrics

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Operative-001/sidelen/internal/decoder"
	"github.com/Operative-001/sidelen/internal/solver"
)

const namespace = "sidelen"

// Extraction outcomes used as the "result" label.
const (
	resultChunk   = "chunk"
	resultNoChunk = "no_chunk"
	resultNoTag   = "no_tag"
)

// Collector implements decoder.Recorder.
type Collector struct {
	framesTotal       prometheus.Counter     // frames handed to the analyzer
	hypothesesTotal   prometheus.Counter     // offset hypotheses created
	extractionsTotal  *prometheus.CounterVec // extraction attempts (by field, result)
	chunksTotal       *prometheus.CounterVec // separator-delimited runs seen (by field)
	emptyChunksTotal  *prometheus.CounterVec // runs with no value (by field)
	spamChunksTotal   *prometheus.CounterVec // runs with more than one value (by field)
	spamSepTotal      *prometheus.CounterVec // separators with foreign values inside (by field)
	maxChunkSpam      *prometheus.GaugeVec   // largest run spam seen (by field)
	maxSeparatorSpam  *prometheus.GaugeVec   // largest separator spam seen (by field)
	fieldsSolvedTotal *prometheus.CounterVec // fields decoded (by field)
	linksSolvedTotal  prometheus.Counter     // links fully decoded
	lastSolve         prometheus.Gauge       // unix time of the last decoded link

	verbose bool

	mu       sync.Mutex // guards the maxima below
	chunkMax map[solver.Field]int
	sepMax   map[solver.Field]int
}

var _ decoder.Recorder = (*Collector)(nil)

// New creates a Collector registered with reg. When verbose is set every
// extraction is also logged.
func New(reg prometheus.Registerer, verbose bool) *Collector {
	f := promauto.With(reg)
	fieldLabel := []string{"field"}
	return &Collector{
		framesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames handed to the analyzer.",
		}),
		hypothesesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offset_hypotheses_total",
			Help:      "Offset hypotheses created across all links.",
		}),
		extractionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Chunk extraction attempts by field and result.",
		}, []string{"field", "result"}),
		chunksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_total",
			Help:      "Separator-delimited data runs seen during extraction.",
		}, fieldLabel),
		emptyChunksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_chunks_total",
			Help:      "Data runs holding no value.",
		}, fieldLabel),
		spamChunksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spammed_chunks_total",
			Help:      "Data runs holding more than one value.",
		}, fieldLabel),
		spamSepTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spammed_separators_total",
			Help:      "Separator pairs with foreign values between them.",
		}, fieldLabel),
		maxChunkSpam: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_chunk_spam",
			Help:      "Most extra values seen in a single data run.",
		}, fieldLabel),
		maxSeparatorSpam: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_separator_spam",
			Help:      "Most foreign values seen inside a single separator pair.",
		}, fieldLabel),
		fieldsSolvedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fields_solved_total",
			Help:      "Fields decoded.",
		}, fieldLabel),
		linksSolvedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_solved_total",
			Help:      "Links with both fields decoded.",
		}),
		lastSolve: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_link_solved_timestamp_seconds",
			Help:      "Unix time the last link was decoded.",
		}),
		verbose:  verbose,
		chunkMax: make(map[solver.Field]int),
		sepMax:   make(map[solver.Field]int),
	}
}

func (c *Collector) FrameObserved() { c.framesTotal.Inc() }

func (c *Collector) HypothesisCreated(link decoder.Link, offset int) {
	c.hypothesesTotal.Inc()
	if c.verbose {
		log.Printf("metrics: %s: new offset hypothesis %d", link, offset)
	}
}

func (c *Collector) ChunkExtracted(field solver.Field, s decoder.Stats) {
	name := field.String()
	result := resultNoTag
	switch {
	case s.Produced:
		result = resultChunk
	case s.TagFound:
		result = resultNoChunk
	}
	c.extractionsTotal.WithLabelValues(name, result).Inc()
	c.chunksTotal.WithLabelValues(name).Add(float64(s.Chunks))
	c.emptyChunksTotal.WithLabelValues(name).Add(float64(s.EmptyChunks))
	c.spamChunksTotal.WithLabelValues(name).Add(float64(s.SpammedChunks))
	c.spamSepTotal.WithLabelValues(name).Add(float64(s.SpammedSeparators))

	c.mu.Lock()
	if s.MaxChunkSpam > c.chunkMax[field] {
		c.chunkMax[field] = s.MaxChunkSpam
		c.maxChunkSpam.WithLabelValues(name).Set(float64(s.MaxChunkSpam))
	}
	if s.MaxSeparatorSpam > c.sepMax[field] {
		c.sepMax[field] = s.MaxSeparatorSpam
		c.maxSeparatorSpam.WithLabelValues(name).Set(float64(s.MaxSeparatorSpam))
	}
	c.mu.Unlock()

	if c.verbose {
		log.Printf("metrics: %s extraction: %s, chunks=%d empty=%d spammed=%d (max %d) spammed separators=%d (max %d)",
			name, result, s.Chunks, s.EmptyChunks, s.SpammedChunks, s.MaxChunkSpam, s.SpammedSeparators, s.MaxSeparatorSpam)
	}
}

func (c *Collector) FieldSolved(field solver.Field) {
	c.fieldsSolvedTotal.WithLabelValues(field.String()).Inc()
}

func (c *Collector) LinkSolved(link decoder.Link) {
	c.linksSolvedTotal.Inc()
	c.lastSolve.SetToCurrentTime()
}

// Serve exposes g on addr at /metrics until the returned server is shut down.
func Serve(addr string, g prometheus.Gatherer) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics: %v", err)
		}
	}()
	return srv
}
