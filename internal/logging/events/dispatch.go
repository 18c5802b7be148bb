package events

import (
	"time"

	"github.com/atomicstack/editor-reset-control/internal/logging"
)

type DispatchTracer struct{}

var Dispatch = DispatchTracer{}

func (DispatchTracer) Queue(id, job, label string) {
	logging.Trace("dispatch.queue", map[string]interface{}{"id": id, "job": job, "label": label})
}

func (DispatchTracer) Skip(job, reason string) {
	logging.Trace("dispatch.skip", map[string]interface{}{"job": job, "reason": reason})
}

func (DispatchTracer) Result(id, job, outcome string) {
	logging.Trace("dispatch.result", map[string]interface{}{"id": id, "job": job, "outcome": outcome})
}

func (DispatchTracer) Settle(id, job string, elapsed time.Duration) {
	logging.Trace("dispatch.settle", map[string]interface{}{"id": id, "job": job, "elapsed": elapsed.String()})
}
