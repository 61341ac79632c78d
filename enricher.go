package visitfacts

import (
	"context"
	"fmt"
)

// Enricher adds columns to the fact table held in the pipeline state.
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, state *State) error
	Required() bool
}

type BaseEnricher struct {
	name     string
	required bool
}

type EnricherOption func(*BaseEnricher)

func NewBaseEnricher(name string, opts ...EnricherOption) BaseEnricher {
	e := BaseEnricher{
		name:     name,
		required: true,
	}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

func EnricherWithRequired(required bool) EnricherOption {
	return func(e *BaseEnricher) {
		e.required = required
	}
}

func (e BaseEnricher) Name() string   { return e.name }
func (e BaseEnricher) Required() bool { return e.required }

// Dimension describes how a reference table is prepared before it is joined
// onto the fact table: Drop columns are removed first, then Rename is applied.
// Key is the fact-table column the prepared dimension is joined on; Rename
// must map the dimension's identifier onto it.
type Dimension struct {
	Dataset string
	Key     string
	Drop    []string
	Rename  map[string]string
}

func PatientDimension() Dimension {
	return Dimension{
		Dataset: DatasetPatients,
		Key:     "patient_id",
		Drop:    []string{"created_at"},
		Rename: map[string]string{
			"id":   "patient_id",
			"name": "patient_name",
			"sex":  "patient_sex",
		},
	}
}

func DoctorDimension() Dimension {
	return Dimension{
		Dataset: DatasetDoctors,
		Key:     "doctor_id",
		Drop:    []string{"created_at"},
		Rename: map[string]string{
			"id":   "doctor_id",
			"name": "doctor_name",
		},
	}
}

// Prepare applies Drop and Rename to a copy of t.
func (d Dimension) Prepare(t *Table) (*Table, error) {
	out := t
	if len(d.Drop) > 0 {
		var err error
		if out, err = out.Drop(d.Drop...); err != nil {
			return nil, err
		}
	}
	return out.Rename(d.Rename)
}

// JoinEnricher left-joins one dimension onto the fact table.
type JoinEnricher struct {
	BaseEnricher
	dim Dimension
}

func NewJoinEnricher(dim Dimension, opts ...EnricherOption) *JoinEnricher {
	return &JoinEnricher{
		BaseEnricher: NewBaseEnricher(dim.Dataset+"_join", opts...),
		dim:          dim,
	}
}

func (e *JoinEnricher) Enrich(ctx context.Context, state *State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fact := state.Fact()
	if fact == nil {
		return fmt.Errorf("no fact table to join %s onto", e.dim.Dataset)
	}
	dim := state.Dataset(e.dim.Dataset)
	if dim == nil {
		return fmt.Errorf("dataset %s was not fetched", e.dim.Dataset)
	}

	prepared, err := e.dim.Prepare(dim)
	if err != nil {
		return err
	}

	joined, stats, err := LeftJoin(fact, prepared, e.dim.Key)
	if err != nil {
		return err
	}

	state.SetFact(joined)
	state.AddJoinStats(stats)

	if stats.Expanded > 0 {
		state.Logger().Info("duplicate dimension keys expanded fact rows",
			"dimension", e.dim.Dataset,
			"key", e.dim.Key,
			"extra_rows", stats.Expanded,
		)
	}
	return nil
}
