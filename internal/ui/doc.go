// Package ui contains the Bubble Tea program for the editor reset utility.
// The Model type focuses on message orchestration while dedicated helpers own
// input, the editor picker, rendering and bridge commands.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Each tea.Msg is
//     routed through a typed handler registry so it is handled by a focused
//     function (key presses, readiness events, bridge results).
//   - Operations go through the command bus (internal/ui/command). The bus
//     takes the session guard in Update, runs the bridge call inside a
//     tea.Cmd and returns a command.Result, whose handler settles the
//     dispatch. The guard is therefore always released on the Update thread.
//   - Calls that need no guard (system info, first run, links) use Bus.Call
//     and come back as their own message types.
//
// Rendering:
//   - The screen is a fixed list of named regions held by a Binder
//     (regions.go). The model resolves each region once and refresh writes the
//     current state into them after every update; a region only re-renders
//     when its content or the width changed.
//
// Backend interactions:
//   - A backend.Watcher probes the bridge until it is ready. Update waits for
//     its events and the first ready event loads the editor state and checks
//     whether the first-run panel should be shown.
//
// Tests drive the model through Harness, which executes returned commands
// synchronously and holds delayed messages until Advance is called.
package ui
