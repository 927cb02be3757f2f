package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/taskr/internal/task"
)

// Printer writes dispatcher output with a theme.
type Printer struct {
	theme Theme
	title cases.Caser
}

// NewPrinter returns a Printer using theme.
func NewPrinter(theme Theme) *Printer {
	return &Printer{theme: theme, title: cases.Title(language.English)}
}

// Theme returns the printer's theme.
func (p *Printer) Theme() Theme {
	return p.theme
}

// List writes every task with its description. Ungrouped tasks come first,
// then each group in order of first appearance. Names are padded to a
// common display width so descriptions line up.
func (p *Printer) List(w io.Writer, tasks []task.Task) {
	var b strings.Builder
	b.WriteString(p.theme.Heading.Render("Available tasks:"))
	b.WriteByte('\n')

	if len(tasks) == 0 {
		b.WriteString("    " + p.theme.Description.Render("(none)") + "\n")
		_, _ = io.WriteString(w, b.String())
		return
	}

	width := 0
	for _, t := range tasks {
		if n := runewidth.StringWidth(t.Name); n > width {
			width = n
		}
	}

	var order []string
	groups := make(map[string][]task.Task)
	for _, t := range tasks {
		if _, seen := groups[t.Group]; !seen {
			order = append(order, t.Group)
		}
		groups[t.Group] = append(groups[t.Group], t)
	}
	// Ungrouped tasks are listed before any group header.
	if _, ok := groups[""]; ok && order[0] != "" {
		order = append([]string{""}, removeString(order, "")...)
	}

	for _, g := range order {
		indent := "    "
		if g != "" {
			b.WriteString("  " + p.theme.Group.Render(p.title.String(g)) + "\n")
			indent = "      "
		}
		for _, t := range groups[g] {
			if t.Description == "" {
				b.WriteString(indent + p.theme.TaskName.Render(t.Name) + "\n")
				continue
			}
			b.WriteString(indent + p.theme.TaskName.Render(runewidth.FillRight(t.Name, width)) +
				"  " + p.theme.Description.Render("# "+t.Description) + "\n")
		}
	}
	_, _ = io.WriteString(w, b.String())
}

// Announce writes a task's announcement line.
func (p *Printer) Announce(w io.Writer, text string) {
	fmt.Fprintln(w, p.theme.Announce.Render(text))
}

// DryRun writes the command line that would have been run.
func (p *Printer) DryRun(w io.Writer, argv []string) {
	fmt.Fprintln(w, p.theme.Command.Render(p.theme.Prompt+task.JoinArgv(argv)))
}

// Error writes a "taskr: ..." error line.
func (p *Printer) Error(w io.Writer, err error) {
	fmt.Fprintln(w, p.theme.Error.Render("taskr: "+err.Error()))
}

func removeString(list []string, s string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
