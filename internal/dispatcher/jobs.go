package dispatcher

import (
	"context"

	"github.com/atomicstack/editor-reset-control/internal/bridge"
	"github.com/atomicstack/editor-reset-control/internal/operation"
	"github.com/atomicstack/editor-reset-control/internal/state"
)

const (
	JobRunAll = "all"
	JobDetect = "detect"

	DetectLabel = "Editor detection"
	DetectBusy  = "Scanning for editors..."
)

// OperationJob dispatches a single maintenance operation.
func OperationJob(k operation.Kind) Job {
	return Job{
		Name:  k.ID(),
		Label: k.Label(),
		Busy:  k.BusyMessage(),
		Hold:  state.HoldOperation,
		Call: func(ctx context.Context, c bridge.Client) (any, error) {
			return k.Invoke(ctx, c)
		},
	}
}

// RunAllJob dispatches run_all_operations.
func RunAllJob() Job {
	return Job{
		Name:  JobRunAll,
		Label: operation.AllLabel,
		Busy:  operation.AllBusyMessage,
		Hold:  state.HoldOperation,
		Call: func(ctx context.Context, c bridge.Client) (any, error) {
			return c.RunAllOperations(ctx)
		},
	}
}

// DetectJob scans for installed editors under the detection hold.
func DetectJob() Job {
	return Job{
		Name:  JobDetect,
		Label: DetectLabel,
		Busy:  DetectBusy,
		Hold:  state.HoldDetection,
		Call: func(ctx context.Context, c bridge.Client) (any, error) {
			return c.DetectIDEs(ctx)
		},
	}
}
