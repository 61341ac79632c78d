package visitfacts_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nulllvoid/visitfacts"
)

func TestState_Defaults(t *testing.T) {
	t.Parallel()

	req := stubRequest()
	state := visitfacts.NewState(req, nil)

	assert.Same(t, req, state.Request())
	assert.IsType(t, visitfacts.NopLogger{}, state.Logger())
	assert.Nil(t, state.Fact())
	assert.Zero(t, state.RowCount())
	assert.False(t, state.HasErrors())
	assert.Empty(t, state.FetchResults())
	assert.Empty(t, state.Outputs())
}

func TestState_Dataset(t *testing.T) {
	t.Parallel()

	state := visitfacts.NewState(stubRequest(), nil)
	patients := mustReadCSV(t, visitfacts.DatasetPatients, patientsCSV)
	ds := stubRequest()

	state.AddFetchResult(visitfacts.Fetched(ds.Patients, "stub", patients))
	state.AddFetchResult(visitfacts.FetchFailed(ds.Doctors, "stub", errors.New("boom")))

	assert.Same(t, patients, state.Dataset(visitfacts.DatasetPatients))
	assert.Nil(t, state.Dataset(visitfacts.DatasetDoctors), "failed fetch has no table")
	assert.Nil(t, state.Dataset(visitfacts.DatasetVisits), "never fetched")
	assert.Len(t, state.FetchResults(), 2)
}

func TestState_FactAndStats(t *testing.T) {
	t.Parallel()

	state := visitfacts.NewState(stubRequest(), nil)
	state.SetFact(mustReadCSV(t, visitfacts.DatasetVisits, visitsCSV))
	state.AddJoinStats(visitfacts.JoinStats{Dimension: visitfacts.DatasetPatients, Unmatched: 1})
	state.SetInvalidTimestamps(3)
	state.AddOutput("out.csv")
	state.AddError(errors.New("warning"))

	assert.Equal(t, 2, state.RowCount())
	require.Len(t, state.JoinStats(), 1)
	assert.Equal(t, 1, state.JoinStats()[0].Unmatched)
	assert.Equal(t, 3, state.InvalidTimestamps())
	assert.Equal(t, []string{"out.csv"}, state.Outputs())
	assert.True(t, state.HasErrors())
}

func TestState_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	state := visitfacts.NewState(stubRequest(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			state.AddOutput("x")
			state.AddError(errors.New("x"))
		}()
		go func() {
			defer wg.Done()
			_ = state.Outputs()
			_ = state.Errors()
		}()
	}
	wg.Wait()

	assert.Len(t, state.Outputs(), 50)
	assert.Len(t, state.Errors(), 50)
}

func TestState_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	state := visitfacts.NewState(stubRequest(), nil)
	state.AddError(errors.New("first"))
	state.AddOutput("out.csv")

	errs := state.Errors()
	errs[0] = errors.New("replaced")
	outputs := state.Outputs()
	outputs[0] = "replaced"

	require.Len(t, state.Errors(), 1)
	assert.EqualError(t, state.Errors()[0], "first")
	assert.Equal(t, []string{"out.csv"}, state.Outputs())
}
