// Package job sequences the collection and digest steps into scheduled
// pipeline runs.
package job

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Step is one stage of the pipeline. Run returns an error to abort the
// remainder of the run.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pipeline runs steps in order with a fixed pause between them, mirroring
// the cadence of running each stage as its own scheduled process.
type Pipeline struct {
	tracer    trace.Tracer
	steps     []Step
	stepDelay time.Duration
	metrics   *Metrics

	sleep func(ctx context.Context, d time.Duration)
}

func NewPipeline(tracer trace.Tracer, steps []Step, stepDelaySecs int, metrics *Metrics) *Pipeline {
	return &Pipeline{
		tracer:    tracer,
		steps:     steps,
		stepDelay: time.Duration(stepDelaySecs) * time.Second,
		metrics:   metrics,
		sleep:     sleepCtx,
	}
}

// RunOnce executes every step in order. The first failure aborts the run;
// later steps do not execute.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.run-once")
	defer span.End()

	log.Println("Pipeline run starting")
	for i, step := range p.steps {
		if i > 0 && p.stepDelay > 0 {
			p.sleep(ctx, p.stepDelay)
		}
		if err := ctx.Err(); err != nil {
			p.recordPipeline("cancelled")
			return err
		}
		if err := p.runStep(ctx, step); err != nil {
			p.recordPipeline("failure")
			return fmt.Errorf("pipeline aborted at step %s: %w", step.Name, err)
		}
	}
	p.recordPipeline("success")
	log.Println("Pipeline run complete")
	return nil
}

// RunStep executes a single named step, for manual triggering.
func (p *Pipeline) RunStep(ctx context.Context, name string) error {
	for _, step := range p.steps {
		if step.Name == name {
			return p.runStep(ctx, step)
		}
	}
	return fmt.Errorf("unknown step: %s", name)
}

// StepNames lists the configured steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name
	}
	return names
}

func (p *Pipeline) runStep(ctx context.Context, step Step) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.step."+step.Name)
	defer span.End()

	start := time.Now()
	err := step.Run(ctx)
	elapsed := time.Since(start)

	if p.metrics != nil {
		p.metrics.StepDuration.WithLabelValues(step.Name).Observe(elapsed.Seconds())
	}
	if err != nil {
		p.recordStep(step.Name, "failure")
		log.Printf("Step %s failed after %s: %v", step.Name, elapsed.Round(time.Millisecond), err)
		return err
	}
	p.recordStep(step.Name, "success")
	log.Printf("Step %s finished in %s", step.Name, elapsed.Round(time.Millisecond))
	return nil
}

func (p *Pipeline) recordPipeline(outcome string) {
	if p.metrics != nil {
		p.metrics.PipelineRuns.WithLabelValues(outcome).Inc()
	}
}

func (p *Pipeline) recordStep(name, outcome string) {
	if p.metrics != nil {
		p.metrics.StepRuns.WithLabelValues(name, outcome).Inc()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
