package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bcbdata/pkg/contracts/domain"
)

func TestRunnerRunsAllSteps(t *testing.T) {
	var order []string
	step := func(id string) Step {
		return StepFunc(id, id, func(ctx context.Context) error {
			order = append(order, id)
			return nil
		})
	}

	report := NewRunner(step("one"), step("two"), step("three")).Run(context.Background())

	require.False(t, report.Failed())
	assert.Equal(t, []string{"one", "two", "three"}, order)
	for _, state := range report.Steps {
		assert.Equal(t, StepCompleted, state.Status)
		assert.NoError(t, state.Err)
	}
}

func TestRunnerStopsOnFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	var ranThird bool

	report := NewRunner(
		StepFunc("one", "one", func(ctx context.Context) error { return nil }),
		StepFunc("two", "two", func(ctx context.Context) error { return boom }),
		StepFunc("three", "three", func(ctx context.Context) error {
			ranThird = true
			return nil
		}),
	).Run(context.Background())

	require.True(t, report.Failed())
	assert.ErrorIs(t, report.Err, boom)
	assert.False(t, ranThird, "steps after a failure must not run")

	assert.Equal(t, StepCompleted, report.Steps[0].Status)
	assert.Equal(t, StepFailed, report.Steps[1].Status)
	assert.ErrorIs(t, report.Steps[1].Err, boom)
	assert.Equal(t, StepSkipped, report.Steps[2].Status)
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran bool
	report := NewRunner(
		StepFunc("one", "one", func(ctx context.Context) error {
			ran = true
			return nil
		}),
	).Run(ctx)

	require.True(t, report.Failed())
	assert.ErrorIs(t, report.Err, context.Canceled)
	assert.False(t, ran)
	assert.Equal(t, StepSkipped, report.Steps[0].Status)
}

func TestStepFunc(t *testing.T) {
	s := StepFunc("collect", "Download extracts", func(ctx context.Context) error { return nil })
	assert.Equal(t, "collect", s.ID())
	assert.Equal(t, "Download extracts", s.Name())
	assert.NoError(t, s.Run(context.Background()))
}

func TestOutcomesCounts(t *testing.T) {
	o := Outcomes{
		{Period: domain.Period{Year: 2023, Month: 1}, Rows: 10},
		{Period: domain.Period{Year: 2023, Month: 2}, Err: errors.New("404")},
		{Period: domain.Period{Year: 2023, Month: 3}, Rows: 4},
	}

	assert.Equal(t, 2, o.Usable())
	assert.Equal(t, 1, o.Failed())
}
