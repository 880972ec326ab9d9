package profiler

import (
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/fooooooooooooooo/PengEngine/common"
)

// SpanStats accumulates the timings of every span opened under one name since the last report.
type SpanStats struct {
	// Count is the number of spans closed.
	Count int
	// Total is the summed duration of all closed spans.
	Total time.Duration
	// Max is the longest single span.
	Max time.Duration
}

// Average returns the mean span duration, or zero if no span was recorded.
//
// Returns:
//   - time.Duration: Total divided by Count
func (s SpanStats) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Profiler tracks frame rate, memory statistics and named span timings for performance monitoring.
// Outputs stats to the injected logger at a configurable interval.
// Profiler implements Tracer, so it can be passed wherever scoped instrumentation is accepted.
type Profiler struct {
	mu *sync.Mutex

	logger *slog.Logger
	now    func() time.Time

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	spans map[string]*SpanStats
}

var _ Tracer = &Profiler{}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second and logging is discarded unless WithLogger is given.
//
// Parameters:
//   - options: variadic list of ProfilerBuilderOption functions to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		mu:             &sync.Mutex{},
		logger:         common.NopLogger(),
		now:            time.Now,
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
		spans:          make(map[string]*SpanStats),
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

type profilerSpan struct {
	p     *Profiler
	name  string
	start time.Time
}

func (s *profilerSpan) End() {
	s.p.record(s.name, s.p.now().Sub(s.start))
}

// Begin opens a timed span. The duration is folded into the per-name SpanStats when the span ends.
func (p *Profiler) Begin(name string) Span {
	return &profilerSpan{p: p, name: name, start: p.now()}
}

func (p *Profiler) record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.spans[name]
	if !ok {
		st = &SpanStats{}
		p.spans[name] = st
	}
	st.Count++
	st.Total += d
	if d > st.Max {
		st.Max = d
	}
}

// Span returns the accumulated statistics for a span name since the last report.
//
// Parameters:
//   - name: the span name passed to Begin
//
// Returns:
//   - SpanStats: the accumulated statistics
//   - bool: false if no span with that name has ended since the last report
func (p *Profiler) Span(name string) (SpanStats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, ok := p.spans[name]
	if !ok {
		return SpanStats{}, false
	}
	return *st, true
}

// SpanNames returns the names of all spans recorded since the last report, sorted alphabetically.
//
// Returns:
//   - []string: the recorded span names
func (p *Profiler) SpanNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.spans))
	for name := range p.spans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory,
// followed by one line per recorded span. Span statistics are reset after each report.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap bytes. TotalAlloc: cumulative heap bytes. Sys: bytes obtained from the OS.
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.logger.Info("profiler frame stats",
		slog.Float64("fps", fps),
		slog.Float64("heap_mb", allocMB),
		slog.Float64("alloc_rate_mb_s", allocRateMB),
		slog.Uint64("gc_count", uint64(gcCount)),
		slog.Uint64("gc_last_pause_us", lastPauseUs),
		slog.Uint64("gc_max_pause_us", maxPauseUs),
		slog.Float64("sys_mb", sysMB),
	)

	names := make([]string, 0, len(p.spans))
	for name := range p.spans {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st := p.spans[name]
		p.logger.Info("profiler span stats",
			slog.String("span", name),
			slog.Int("count", st.Count),
			slog.Duration("avg", st.Average()),
			slog.Duration("max", st.Max),
			slog.Duration("total", st.Total),
		)
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.spans = make(map[string]*SpanStats)
	return true
}
