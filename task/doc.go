// Package task runs cooperative, resumable tasks on a small pool of
// workers.
//
// A task is a state machine advanced one [Task.Step] call at a time.
// Each step returns what the task wants next: run again ([StatusYield]),
// sleep until someone calls [Handle.Signal] ([StatusWait]), or finish
// ([StatusDone]). Long-running jobs split their work into steps so a
// handful of workers can interleave many tasks without dedicating a
// goroutine to each.
package task
