package compliance

import (
	"context"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rf-compliance/core/criteria"
	"rf-compliance/core/device"
	"rf-compliance/core/rfnet"
)

// BatchItem is one measurement in a batch evaluation: all temperature and
// path combinations of a device are typically evaluated together.
type BatchItem struct {
	MeasurementID uuid.UUID
	Network       *rfnet.Network
}

// EvaluateBatch evaluates many measurements against the same device port
// configuration and criteria set, in parallel. A single evaluation is
// bounded CPU work, so cancellation applies between measurements: once ctx
// is cancelled no further items are started and the context error is
// returned.
//
// parallelism caps concurrent evaluations; values below 1 default to the
// CPU count.
func (e *Evaluator) EvaluateBatch(
	ctx context.Context,
	items []BatchItem,
	ports device.PortConfig,
	crits []*criteria.Criterion,
	opFreqMinGHz, opFreqMaxGHz float64,
	parallelism int,
) (map[uuid.UUID][]Result, error) {
	if parallelism < 1 {
		parallelism = runtime.NumCPU()
	}

	perItem := make([][]Result, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perItem[i] = e.Evaluate(item.MeasurementID, item.Network, ports, crits, opFreqMinGHz, opFreqMaxGHz)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byMeasurement := make(map[uuid.UUID][]Result, len(items))
	for i, item := range items {
		byMeasurement[item.MeasurementID] = perItem[i]
	}
	return byMeasurement, nil
}
