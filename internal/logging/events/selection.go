package events

import "github.com/atomicstack/editor-reset-control/internal/logging"

type SelectionTracer struct{}

var Selection = SelectionTracer{}

func (SelectionTracer) Change(name, label string) {
	logging.Trace("selection.change", map[string]interface{}{"name": name, "label": label})
}

func (SelectionTracer) Commit(name string, success bool, message string) {
	logging.Trace("selection.commit", map[string]interface{}{"name": name, "success": success, "message": message})
}

func (SelectionTracer) Detected(count int, fallback bool) {
	logging.Trace("selection.detected", map[string]interface{}{"count": count, "fallback": fallback})
}

func (SelectionTracer) Rejected(id string, err error) {
	payload := map[string]interface{}{"id": id}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("selection.rejected-operation", payload)
}
