package flow

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestEngine_RunsStepsInOrder(t *testing.T) {
	var ran []string
	record := func(name string) Step {
		return NewStep(name, func(_ context.Context, fc *Context) error {
			ran = append(ran, name)
			return nil
		})
	}

	engine := NewEngine(NewFlow("demo", record("first"), record("second"), record("third")))

	if err := engine.Run(context.Background(), "demo", NewContext(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(ran, ",") != "first,second,third" {
		t.Errorf("steps ran out of order: %v", ran)
	}
}

func TestEngine_StopsAtFirstFailingStep(t *testing.T) {
	boom := errors.New("boom")
	var thirdRan bool

	engine := NewEngine(NewFlow("demo",
		NewStep("first", func(_ context.Context, fc *Context) error { return nil }),
		NewStep("second", func(_ context.Context, fc *Context) error { return boom }),
		NewStep("third", func(_ context.Context, fc *Context) error { thirdRan = true; return nil }),
	))

	err := engine.Run(context.Background(), "demo", NewContext(nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom error, got %v", err)
	}
	if thirdRan {
		t.Error("step after failure must not run")
	}
}

func TestEngine_UnknownFlowErrors(t *testing.T) {
	engine := NewEngine()
	if err := engine.Run(context.Background(), "nope", NewContext(nil)); err == nil {
		t.Fatal("expected error for unknown flow")
	}
}

func TestContext_StepsShareProcessData(t *testing.T) {
	engine := NewEngine(NewFlow("demo",
		NewStep("produce", func(_ context.Context, fc *Context) error {
			fc.Process["value"] = 42
			return nil
		}),
		NewStep("consume", func(_ context.Context, fc *Context) error {
			fc.Output["value"] = fc.Process["value"]
			return nil
		}),
	))

	fc := NewContext(nil)
	if err := engine.Run(context.Background(), "demo", fc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fc.Output["value"] != 42 {
		t.Errorf("expected output 42, got %v", fc.Output["value"])
	}
}
