package visitfacts

import "context"

// FetchStage loads every dataset of the request, one after another, and seeds
// the fact table from the visits dataset. It fails with a DatasetLoadError
// when any dataset failed or came back empty.
type FetchStage struct {
	chain *FetcherChain
}

func NewFetchStage(chain *FetcherChain) *FetchStage {
	return &FetchStage{chain: chain}
}

func (s *FetchStage) Name() string   { return "fetch" }
func (s *FetchStage) Required() bool { return true }

func (s *FetchStage) Execute(ctx context.Context, state *State) error {
	req := state.Request()
	logger := state.Logger()

	loadErr := &DatasetLoadError{}
	for _, ds := range req.Datasets() {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := s.chain.Fetch(ctx, ds)
		state.AddFetchResult(res)

		switch {
		case !res.OK():
			logger.Error("error loading dataset",
				"dataset", ds.Name,
				"url", ds.Location,
				"error", res.Err(),
			)
			loadErr.Failed = append(loadErr.Failed, ds.Name)
		case res.Empty():
			logger.Error("dataset is empty",
				"dataset", ds.Name,
				"url", ds.Location,
			)
			loadErr.Empty = append(loadErr.Empty, ds.Name)
		default:
			logger.Info("dataset loaded",
				"dataset", ds.Name,
				"fetcher", res.Fetcher,
				"rows", res.Table().Len(),
				"duration", res.Duration,
			)
		}
	}

	if len(loadErr.Failed) > 0 || len(loadErr.Empty) > 0 {
		return loadErr
	}

	state.SetFact(state.Dataset(req.Visits.Name).Clone())
	return nil
}
