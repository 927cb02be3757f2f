// Package task defines the task model and the immutable registry the
// dispatcher resolves names against.
package task

import (
	"errors"
	"fmt"
	"strings"
)

// Registry validation errors.
var (
	ErrEmptyName     = errors.New("task name is empty")
	ErrEmptyCommand  = errors.New("task command is empty")
	ErrDuplicateTask = errors.New("task already registered")
)

// Task is a named, pre-configured external command invocation.
type Task struct {
	Name         string
	Description  string
	Group        string
	Announcement string   // printed to stdout before the command starts
	Command      []string // argv; Command[0] is the program
	WindowsShell []string // overrides the registry-wide Windows shell for this task
}

// Registry is an ordered, immutable set of tasks keyed by name.
// The zero value is an empty registry.
type Registry struct {
	tasks []Task
	index map[string]int
}

// NewRegistry validates tasks and returns a registry that preserves their order.
func NewRegistry(tasks ...Task) (*Registry, error) {
	r := &Registry{
		tasks: make([]Task, 0, len(tasks)),
		index: make(map[string]int, len(tasks)),
	}
	for i, t := range tasks {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("task #%d: %w", i+1, ErrEmptyName)
		}
		if len(t.Command) == 0 || strings.TrimSpace(t.Command[0]) == "" {
			return nil, fmt.Errorf("task %q: %w", name, ErrEmptyCommand)
		}
		if _, exists := r.index[name]; exists {
			return nil, fmt.Errorf("task %q: %w", name, ErrDuplicateTask)
		}
		t.Name = name
		r.index[name] = len(r.tasks)
		r.tasks = append(r.tasks, clone(t))
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on invalid input.
// Intended for static tables.
func MustRegistry(tasks ...Task) *Registry {
	r, err := NewRegistry(tasks...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns a copy of the named task and whether it exists.
func (r *Registry) Lookup(name string) (Task, bool) {
	if r == nil {
		return Task{}, false
	}
	i, ok := r.index[name]
	if !ok {
		return Task{}, false
	}
	return clone(r.tasks[i]), true
}

// Tasks returns copies of all tasks in registration order.
func (r *Registry) Tasks() []Task {
	if r == nil {
		return nil
	}
	out := make([]Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = clone(t)
	}
	return out
}

// Names returns task names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.tasks))
	for i, t := range r.tasks {
		names[i] = t.Name
	}
	return names
}

// Len reports the number of registered tasks.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tasks)
}

// clone copies the slices so callers cannot mutate registry state.
func clone(t Task) Task {
	t.Command = append([]string(nil), t.Command...)
	if t.WindowsShell != nil {
		t.WindowsShell = append([]string(nil), t.WindowsShell...)
	}
	return t
}
