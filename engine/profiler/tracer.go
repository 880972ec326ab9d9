package profiler

// Span is an open instrumentation scope returned by a Tracer. End must be called exactly once.
type Span interface {
	// End closes the scope.
	End()
}

// Tracer opens named instrumentation scopes around a unit of work.
// Tracers are injected into the components that use them; there is no global tracer.
type Tracer interface {
	// Begin opens a new scope with the given name.
	//
	// Parameters:
	//   - name: a human-readable label for the scope, e.g. "Building DrawCallTree"
	//
	// Returns:
	//   - Span: the open scope, to be closed with End
	Begin(name string) Span
}

type nopSpan struct{}

func (nopSpan) End() {}

type nopTracer struct{}

func (nopTracer) Begin(string) Span { return nopSpan{} }

// NopTracer returns a Tracer whose spans do nothing.
//
// Returns:
//   - Tracer: a tracer that records nothing
func NopTracer() Tracer {
	return nopTracer{}
}

// IsNop reports whether t is nil or the tracer returned by NopTracer.
// Callers use it to skip building span names that nobody will read.
//
// Parameters:
//   - t: the tracer to inspect
//
// Returns:
//   - bool: true if spans opened on t are discarded
func IsNop(t Tracer) bool {
	if t == nil {
		return true
	}
	_, ok := t.(nopTracer)
	return ok
}

type multiSpan []Span

// End closes the child spans in reverse order so nested GPU debug groups stay balanced.
func (m multiSpan) End() {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].End()
	}
}

type multiTracer []Tracer

func (m multiTracer) Begin(name string) Span {
	spans := make(multiSpan, len(m))
	for i, t := range m {
		spans[i] = t.Begin(name)
	}
	return spans
}

// MultiTracer fans every span out to all of the given tracers. Nil and no-op tracers are dropped.
//
// Parameters:
//   - tracers: the tracers to combine
//
// Returns:
//   - Tracer: a tracer forwarding to every non-nop input, or NopTracer if none remain
func MultiTracer(tracers ...Tracer) Tracer {
	live := make(multiTracer, 0, len(tracers))
	for _, t := range tracers {
		if !IsNop(t) {
			live = append(live, t)
		}
	}
	switch len(live) {
	case 0:
		return NopTracer()
	case 1:
		return live[0]
	default:
		return live
	}
}
