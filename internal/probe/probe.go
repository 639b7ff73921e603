package probe

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownProbe  = errors.New("unknown probe")
	ErrProbeMismatch = errors.New("probe log mismatch")
)

// Probe is a recorded behavioral scenario together with the notification
// log the engine must produce for it.
type Probe struct {
	Name        string
	Description string
	Expected    []string
	Run         func(recorder *Recorder)
}

type Result struct {
	Name     string
	Events   []string
	Expected []string
}

func (r Result) Passed() bool {
	if len(r.Events) != len(r.Expected) {
		return false
	}
	for i := range r.Events {
		if r.Events[i] != r.Expected[i] {
			return false
		}
	}
	return true
}

var (
	registryAccess sync.RWMutex
	registry       = make(map[string]Probe)
)

func Register(probe Probe) {
	registryAccess.Lock()
	defer registryAccess.Unlock()
	if _, loaded := registry[probe.Name]; loaded {
		panic("duplicate probe " + probe.Name)
	}
	registry[probe.Name] = probe
}

func Lookup(name string) (Probe, error) {
	registryAccess.RLock()
	defer registryAccess.RUnlock()
	probe, loaded := registry[name]
	if !loaded {
		return Probe{}, fmt.Errorf("%s: %w", name, ErrUnknownProbe)
	}
	return probe, nil
}

// List returns all registered probes sorted by name.
func List() []Probe {
	registryAccess.RLock()
	probes := make([]Probe, 0, len(registry))
	for _, probe := range registry {
		probes = append(probes, probe)
	}
	registryAccess.RUnlock()

	sort.Slice(probes, func(i, j int) bool {
		return probes[i].Name < probes[j].Name
	})
	return probes
}

func Names() []string {
	probes := List()
	names := make([]string, len(probes))
	for i, probe := range probes {
		names[i] = probe.Name
	}
	return names
}

func (p Probe) Execute(logger logrus.FieldLogger) Result {
	recorder := NewRecorder(logger)
	p.Run(recorder)
	return Result{
		Name:     p.Name,
		Events:   recorder.Events(),
		Expected: p.Expected,
	}
}

// Run executes the named probe and reports a mismatch between the recorded
// and the expected log as ErrProbeMismatch.
func Run(name string, logger logrus.FieldLogger) (Result, error) {
	probe, err := Lookup(name)
	if err != nil {
		return Result{}, err
	}
	result := probe.Execute(logger)
	if !result.Passed() {
		return result, fmt.Errorf("%s: %w", name, ErrProbeMismatch)
	}
	return result, nil
}
