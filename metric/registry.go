package metric

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicate is returned when registering a name which is already taken.
var ErrDuplicate = errors.New("metric: name already registered")

type entry struct {
	name string
	inst Instrument
}

// Registry is an ordered collection of named instruments. Iteration follows
// registration order. It is goroutine safe.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int

	// applied to instruments created by the get-or-create helpers
	opts []MOption
}

// NewRegistry creates an empty Registry. The options are given to every
// instrument the Registry creates itself.
func NewRegistry(opts ...MOption) *Registry {
	return &Registry{index: make(map[string]int), opts: opts}
}

// Register adds inst under name.
func (r *Registry) Register(name string, inst Instrument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	r.add(name, inst)
	return nil
}

// must be called with mu held
func (r *Registry) add(name string, inst Instrument) {
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, entry{name: name, inst: inst})
}

// GetOrRegister returns the instrument registered under name, registering
// the result of create first if there is none.
func (r *Registry) GetOrRegister(name string, create func() Instrument) Instrument {
	r.mu.RLock()
	i, ok := r.index[name]
	if ok {
		inst := r.entries[i].inst
		r.mu.RUnlock()
		return inst
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// someone may have won the race while we were unlocked
	if i, ok = r.index[name]; ok {
		return r.entries[i].inst
	}
	inst := create()
	r.add(name, inst)
	return inst
}

// Get looks up an instrument by name.
func (r *Registry) Get(name string) (Instrument, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.index[name]; ok {
		return r.entries[i].inst, true
	}
	return nil, false
}

// Unregister removes name, keeping the order of the remaining instruments.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	found, ok := r.index[name]
	if !ok {
		return false
	}
	copy(r.entries[found:], r.entries[found+1:])
	r.entries[len(r.entries)-1] = entry{}
	r.entries = r.entries[:len(r.entries)-1]
	delete(r.index, name)
	for i := found; i < len(r.entries); i++ {
		r.index[r.entries[i].name] = i
	}
	return true
}

// Len returns the number of registered instruments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Each calls fn for every instrument in registration order and stops at the
// first error, which it returns. fn runs without the registry lock held, on
// the set of instruments registered when Each was called.
func (r *Registry) Each(fn func(name string, inst Instrument) error) error {
	r.mu.RLock()
	entries := make([]entry, len(r.entries))
	copy(entries, r.entries)
	r.mu.RUnlock()

	for _, e := range entries {
		if err := fn(e.name, e.inst); err != nil {
			return err
		}
	}
	return nil
}

func mismatch(name string, inst Instrument, want Kind) string {
	return fmt.Sprintf("metric: %q is a %s, not a %s", name, inst.Kind(), want)
}

// Counter returns the Counter registered as name, creating it if needed.
func (r *Registry) Counter(name string) *Counter {
	inst := r.GetOrRegister(name, func() Instrument { return NewCounter() })
	c, ok := inst.(*Counter)
	if !ok {
		panic(mismatch(name, inst, KindCounter))
	}
	return c
}

// Gauge returns the FuncGauge registered as name, creating it from fn if needed.
func (r *Registry) Gauge(name string, fn func() float64) *FuncGauge {
	inst := r.GetOrRegister(name, func() Instrument { return NewFuncGauge(fn) })
	g, ok := inst.(*FuncGauge)
	if !ok {
		panic(mismatch(name, inst, KindGauge))
	}
	return g
}

// Meter returns the Meter registered as name, creating it if needed.
func (r *Registry) Meter(name string) *Meter {
	inst := r.GetOrRegister(name, func() Instrument { return NewMeter(r.opts...) })
	m, ok := inst.(*Meter)
	if !ok {
		panic(mismatch(name, inst, KindMeter))
	}
	return m
}

// Timer returns the Timer registered as name, creating it if needed.
func (r *Registry) Timer(name string) *Timer {
	inst := r.GetOrRegister(name, func() Instrument { return NewTimer(r.opts...) })
	t, ok := inst.(*Timer)
	if !ok {
		panic(mismatch(name, inst, KindTimer))
	}
	return t
}

// UtilizationTimer returns the UtilizationTimer registered as name, creating it if needed.
func (r *Registry) UtilizationTimer(name string) *UtilizationTimer {
	inst := r.GetOrRegister(name, func() Instrument { return NewUtilizationTimer(r.opts...) })
	t, ok := inst.(*UtilizationTimer)
	if !ok {
		panic(mismatch(name, inst, KindUtilizationTimer))
	}
	return t
}

// Histogram returns the Histogram registered as name, creating it if needed.
func (r *Registry) Histogram(name string) *Histogram {
	inst := r.GetOrRegister(name, func() Instrument { return NewHistogram(r.opts...) })
	h, ok := inst.(*Histogram)
	if !ok {
		panic(mismatch(name, inst, KindHistogram))
	}
	return h
}
