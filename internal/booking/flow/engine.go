// Package flow is a small named-pipeline engine. A flow is an ordered list
// of steps sharing one Context; the engine runs a flow by name and stops at
// the first failing step.
package flow

import (
	"context"
	"fmt"
)

type Step struct {
	Name    string
	Execute func(ctx context.Context, fc *Context) error
}

func NewStep(name string, execute func(ctx context.Context, fc *Context) error) Step {
	return Step{
		Name:    name,
		Execute: execute,
	}
}

type Flow interface {
	Name() string
	Steps() []Step
}

type namedFlow struct {
	name  string
	steps []Step
}

func NewFlow(name string, steps ...Step) Flow {
	return &namedFlow{name: name, steps: steps}
}

func (f *namedFlow) Name() string  { return f.name }
func (f *namedFlow) Steps() []Step { return f.steps }

type Engine struct {
	flows map[string]Flow
}

func NewEngine(flows ...Flow) *Engine {
	m := map[string]Flow{}
	for _, f := range flows {
		m[f.Name()] = f
	}
	return &Engine{flows: m}
}

func (e *Engine) Run(ctx context.Context, flowName string, fc *Context) error {
	f, exists := e.flows[flowName]
	if !exists {
		return fmt.Errorf("unsupported flow: %v", flowName)
	}
	for _, step := range f.Steps() {
		if err := step.Execute(ctx, fc); err != nil {
			return fmt.Errorf("%s step failed, pipeline errored: %w", step.Name, err)
		}
	}
	return nil
}
