package events

import "github.com/atomicstack/editor-reset-control/internal/logging"

type UITracer struct{}

type LinkTracer struct{}

var (
	UI   = UITracer{}
	Link = LinkTracer{}
)

func (UITracer) Key(key string, busy bool) {
	logging.Trace("ui.key", map[string]interface{}{"key": key, "busy": busy})
}

func (UITracer) Region(region string) {
	logging.Trace("ui.region", map[string]interface{}{"region": region})
}

func (UITracer) Panel(name string, open bool) {
	logging.Trace("ui.panel", map[string]interface{}{"panel": name, "open": open})
}

func (LinkTracer) Open(url, via string) {
	logging.Trace("link.open", map[string]interface{}{"url": url, "via": via})
}

func (LinkTracer) Error(url string, err error) {
	if err == nil {
		return
	}
	logging.Trace("link.error", map[string]interface{}{"url": url, "error": err.Error()})
}

type FilterTracer struct{}

type CommandTracer struct{}

var (
	Filter  = FilterTracer{}
	Command = CommandTracer{}
)

func (FilterTracer) Update(list, query string, matches int) {
	logging.Trace("filter.update", map[string]interface{}{"list": list, "query": query, "matches": matches})
}

func (FilterTracer) Cleared(list string) {
	logging.Trace("filter.cleared", map[string]interface{}{"list": list})
}

func (CommandTracer) Queue(name string) {
	logging.Trace("command.queue", map[string]interface{}{"command": name})
}

func (CommandTracer) Result(name, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"command": name, "msg": msgType})
}
