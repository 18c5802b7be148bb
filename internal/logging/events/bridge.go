package events

import (
	"time"

	"github.com/atomicstack/editor-reset-control/internal/logging"
)

type BridgeTracer struct{}

type ProbeTracer struct{}

var (
	Bridge = BridgeTracer{}
	Probe  = ProbeTracer{}
)

func (BridgeTracer) Call(method string, id int64) {
	logging.Trace("bridge.call", map[string]interface{}{"method": method, "id": id})
}

func (BridgeTracer) Result(method string, success bool, message string) {
	logging.Trace("bridge.result", map[string]interface{}{"method": method, "success": success, "message": message})
}

func (BridgeTracer) Transport(method string, err error) {
	if err == nil {
		return
	}
	logging.Trace("bridge.transport", map[string]interface{}{"method": method, "error": err.Error()})
}

func (ProbeTracer) Attempt(attempt int) {
	logging.Trace("probe.attempt", map[string]interface{}{"attempt": attempt})
}

func (ProbeTracer) Retry(attempt int, delay time.Duration, err error) {
	payload := map[string]interface{}{"attempt": attempt, "delay": delay.String()}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("probe.retry", payload)
}

func (ProbeTracer) Ready(attempt int, success bool) {
	logging.Trace("probe.ready", map[string]interface{}{"attempt": attempt, "success": success})
}

func (ProbeTracer) GiveUp(attempt int, err error) {
	payload := map[string]interface{}{"attempt": attempt}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("probe.give-up", payload)
}
