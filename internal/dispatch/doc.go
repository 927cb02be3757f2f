// Package dispatch resolves a task name against the registry and runs the
// task's command as a single child process.
//
// A dispatch request is the argument list after flag parsing. An empty list
// resolves to a listing plan, a single registered name to a run plan. Both
// go through Resolve and Execute. The dispatcher keeps no state between
// calls and never retries.
package dispatch
