// Package command executes the commands keybindings resolve to.
//
// A Registry maps command ids to Handlers and is the synchronous Executor.
// A Runner wraps an Executor for the dispatcher: every invocation runs on
// its own goroutine under an invocation id, and failures are reported as
// diagnostics instead of being returned.
//
// LuaHandler runs a Lua snippet as a command, with the keybinding's args
// bound to the global "args".
package command
