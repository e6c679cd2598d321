package automaton

import (
	"fmt"

	"github.com/pkg/errors"
)

// DebugAction is a named zero-argument operation a host UI can offer
type DebugAction struct {
	Name string
	Run  func()
}

var fixedRates = []int{1, 2, 5, 10}

// DebugActions lists the operations of the automaton in display order
func (a *Automaton) DebugActions() []DebugAction {
	actions := []DebugAction{
		{Name: "reset", Run: a.Reset},
		{Name: "make-cubic", Run: a.MakeCubic},
		{Name: "clear", Run: a.ClearGrid},
		{Name: "seed-single", Run: a.SeedSingle},
		{Name: "seed-noise", Run: a.SeedNoise},
		{Name: "seed-block", Run: a.SeedBlock},
		{Name: "seed-bounding-box", Run: a.SeedBoundingBox},
		{Name: "step", Run: func() {
			if err := a.Step(); err != nil {
				a.log.Printf("debug step: %v", err)
			}
		}},
	}
	for _, rate := range fixedRates {
		actions = append(actions, DebugAction{
			Name: fmt.Sprintf("steps-%d/s", rate),
			Run:  func() { a.FixedRate(rate) },
		})
	}
	return append(actions, DebugAction{Name: "steps-max", Run: a.MaxRate})
}

// Invoke runs the debug action with the given name
func (a *Automaton) Invoke(name string) error {
	for _, action := range a.DebugActions() {
		if action.Name == name {
			action.Run()
			return nil
		}
	}
	return errors.Errorf("[Invoke] unknown debug action: %+v", name)
}
