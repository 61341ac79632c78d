package visitfacts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nulllvoid/visitfacts"
)

func TestFetchStage_Metadata(t *testing.T) {
	t.Parallel()

	stage := visitfacts.NewFetchStage(visitfacts.NewFetcherChain())
	assert.Equal(t, "fetch", stage.Name())
	assert.True(t, stage.Required())
}

func TestFetchStage_LoadsAllDatasetsInOrder(t *testing.T) {
	t.Parallel()

	f := newStubFetcher(stubTables())
	stage := visitfacts.NewFetchStage(visitfacts.NewFetcherChain(visitfacts.ChainWithFetcher(f)))
	state := visitfacts.NewState(stubRequest(), nil)

	require.NoError(t, stage.Execute(context.Background(), state))

	assert.Equal(t, []string{"mem://patients", "mem://visits", "mem://doctors"}, f.calls)
	assert.Len(t, state.FetchResults(), 3)
	require.NotNil(t, state.Fact())
	assert.Equal(t, 2, state.RowCount())

	state.Fact().Rows()[0][0].String = "changed"
	got, _ := cellText(t, state.Dataset(visitfacts.DatasetVisits), 0, "id")
	assert.Equal(t, "100", got, "fact table must be a copy of the visits dataset")
}

func TestFetchStage_FailureNamesDataset(t *testing.T) {
	t.Parallel()

	f := newStubFetcher(stubTables())
	f.errs["mem://doctors"] = visitfacts.ErrRetrieveFailed
	logger := &recordingLogger{}
	stage := visitfacts.NewFetchStage(visitfacts.NewFetcherChain(visitfacts.ChainWithFetcher(f)))
	state := visitfacts.NewState(stubRequest(), logger)

	err := stage.Execute(context.Background(), state)

	assert.ErrorIs(t, err, visitfacts.ErrDatasetsNotLoaded)
	var loadErr *visitfacts.DatasetLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, []string{visitfacts.DatasetDoctors}, loadErr.Failed)
	assert.Empty(t, loadErr.Empty)
	assert.Nil(t, state.Fact())

	require.Len(t, logger.errorCalls, 1)
	assert.Contains(t, logger.errorCalls[0], "mem://doctors", "the failing URL is logged")
	assert.Len(t, f.calls, 3, "remaining datasets are still fetched")
}

func TestFetchStage_EmptyDataset(t *testing.T) {
	t.Parallel()

	tables := stubTables()
	tables["mem://patients"] = "id,name,sex,created_at\n"
	f := newStubFetcher(tables)
	stage := visitfacts.NewFetchStage(visitfacts.NewFetcherChain(visitfacts.ChainWithFetcher(f)))

	err := stage.Execute(context.Background(), visitfacts.NewState(stubRequest(), nil))

	var loadErr *visitfacts.DatasetLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, []string{visitfacts.DatasetPatients}, loadErr.Empty)
	assert.Contains(t, err.Error(), "could not be loaded")
}

func TestFetchStage_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newStubFetcher(stubTables())
	stage := visitfacts.NewFetchStage(visitfacts.NewFetcherChain(visitfacts.ChainWithFetcher(f)))

	err := stage.Execute(ctx, visitfacts.NewState(stubRequest(), nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.calls)
}
