// Package terminal renders rah's output for humans, with or without colors
package terminal

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/rah/pkg/deptree"
	rahErrors "github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/ui/display"
	"github.com/arthur-debert/rah/pkg/ui/output/styles"
)

const labelWidth = 15

// Renderer writes styled text. Without color the same layout is written
// with no escape sequences.
type Renderer struct {
	output io.Writer
	color  bool
}

// New creates a terminal renderer
func New(w io.Writer, color bool) *Renderer {
	return &Renderer{output: w, color: color}
}

func (r *Renderer) paint(style, s string) string {
	if !r.color || s == "" {
		return s
	}
	return styles.GetStyle(style).Render(s)
}

func (r *Renderer) println(parts ...string) error {
	_, err := fmt.Fprintln(r.output, strings.Join(parts, ""))
	return err
}

// RenderResult renders one of the display view models
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *display.PackageList:
		return r.renderList(v)
	case *display.DetailsList:
		return r.renderDetails(v)
	case *display.InstallPlan:
		return r.renderPlan(v)
	case *display.Message:
		if v.Level == "warning" {
			return r.RenderWarning(v.Text)
		}
		return r.RenderMessage(v.Text)
	case string:
		return r.RenderMessage(v)
	default:
		_, err := fmt.Fprintf(r.output, "%v\n", v)
		return err
	}
}

// RenderError writes err prefixed with "error:". Resolution errors list
// every dependency that failed.
func (r *Renderer) RenderError(err error) error {
	var resErr *deptree.ResolutionError
	if errors.As(err, &resErr) {
		if e := r.println(r.paint("Error", "error:"), " could not resolve all dependencies"); e != nil {
			return e
		}
		for _, u := range resErr.Unresolved {
			if e := r.println("    ", r.problem(u.Spec, u.RequiredBy), ": ", u.Reason.String()); e != nil {
				return e
			}
		}
		for _, a := range resErr.Ambiguous {
			if e := r.println("    ", r.problem(a.Spec, a.RequiredBy), ": provided by ", strings.Join(a.Candidates, ", ")); e != nil {
				return e
			}
		}
		return nil
	}
	return r.println(r.paint("Error", "error:"), " ", describe(err))
}

// describe renders err without the error codes meant for machines
func describe(err error) string {
	var rahErr *rahErrors.RahError
	if !errors.As(err, &rahErr) {
		return err.Error()
	}
	if rahErr.Wrapped == nil {
		return rahErr.Message
	}
	return rahErr.Message + ": " + describe(rahErr.Wrapped)
}

// RenderMessage writes a plain line
func (r *Renderer) RenderMessage(msg string) error {
	return r.println(msg)
}

// RenderWarning writes msg prefixed with "warning:"
func (r *Renderer) RenderWarning(msg string) error {
	return r.println(r.paint("Warning", "warning:"), " ", msg)
}

func (r *Renderer) renderList(l *display.PackageList) error {
	for _, p := range l.Packages {
		name := r.paint("PackageName", p.Name)
		if l.ShowSource {
			name = r.source(p.Source) + "/" + name
		}
		line := name + " " + r.paint("Version", p.Version)
		if p.Installed != "" {
			label := "[installed]"
			if p.Installed != p.Version {
				label = "[installed: " + p.Installed + "]"
			}
			line += " " + r.paint("Installed", label)
		}
		if p.OutOfDate {
			line += " " + r.paint("OutOfDate", "(Out-of-date)")
		}
		if err := r.println(line); err != nil {
			return err
		}
		if l.ShowDescription && p.Description != "" {
			if err := r.println("    ", r.paint("Description", p.Description)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) renderDetails(l *display.DetailsList) error {
	for i, p := range l.Packages {
		if i > 0 {
			if err := r.println(); err != nil {
				return err
			}
		}
		for _, f := range p.Fields {
			label := fmt.Sprintf("%-*s", labelWidth, f.Label)
			if err := r.println(r.paint("Label", label), " : ", f.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) renderPlan(p *display.InstallPlan) error {
	if len(p.Tree) > 0 {
		if err := r.header("Dependency tree"); err != nil {
			return err
		}
		for _, t := range p.Tree {
			if err := r.println(r.treeLine(t)); err != nil {
				return err
			}
		}
	}

	if p.Empty() && p.Complete() {
		return r.println(" there is nothing to do")
	}

	sections := []struct {
		title   string
		entries []display.PlanEntry
	}{
		{"Repository packages", p.Repo},
		{"AUR packages", p.AUR},
	}
	for _, s := range sections {
		if len(s.entries) == 0 {
			continue
		}
		if err := r.header(fmt.Sprintf("%s (%d)", s.title, len(s.entries))); err != nil {
			return err
		}
		for _, e := range s.entries {
			line := "   " + r.source(e.Source) + "/" + r.paint("PackageName", e.Name) + " " + r.paint("Version", e.Version)
			if e.Base != e.Name {
				line += " " + r.paint("Muted", "("+e.Base+")")
			}
			if e.AsDeps {
				line += " " + r.paint("Muted", "["+e.Kind+"]")
			}
			if err := r.println(line); err != nil {
				return err
			}
		}
	}

	if len(p.Optional) > 0 {
		if err := r.header("Optional dependencies"); err != nil {
			return err
		}
		for _, o := range p.Optional {
			line := "   " + o.RequiredBy + ": " + r.paint("PackageName", o.Spec)
			if o.Detail != "" {
				line += " - " + o.Detail
			}
			if o.Reason != "" {
				line += " " + r.paint("Muted", "["+o.Reason+"]")
			}
			if err := r.println(line); err != nil {
				return err
			}
		}
	}

	if p.Complete() {
		return nil
	}
	if err := r.header("Unresolved dependencies"); err != nil {
		return err
	}
	for _, u := range p.Unresolved {
		line := "   " + r.problem(u.Spec, u.RequiredBy) + ": " + r.paint("Error", u.Reason)
		if u.Detail != "" && u.Detail != u.Reason {
			line += " " + r.paint("Muted", "("+u.Detail+")")
		}
		if err := r.println(line); err != nil {
			return err
		}
	}
	for _, a := range p.Ambiguous {
		line := "   " + r.problem(a.Spec, a.RequiredBy) + ": " + r.paint("Warning", "provided by "+strings.Join(a.Candidates, ", "))
		if err := r.println(line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) header(title string) error {
	return r.println(r.paint("Header", "::"), " ", r.paint("Bold", title))
}

func (r *Renderer) source(src string) string {
	if src == "aur" {
		return r.paint("AUR", src)
	}
	return r.paint("Repo", src)
}

func (r *Renderer) problem(spec, requiredBy string) string {
	s := r.paint("PackageName", spec)
	if requiredBy != "" {
		s += " (required by " + requiredBy + ")"
	}
	return s
}

func (r *Renderer) treeLine(t display.TreeLine) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", t.Depth))
	if t.Depth > 0 {
		b.WriteString(r.paint("Tree", "└─ "))
	}
	b.WriteString(r.paint("PackageName", t.Name))
	if t.Version != "" {
		b.WriteString(" " + r.paint("Version", t.Version))
	}
	attrs := []string{t.Kind, t.Status}
	if t.Shared {
		attrs = append(attrs, "shared")
	}
	if t.Cycle {
		attrs = append(attrs, "cycle")
	}
	b.WriteString(" " + r.paint("Muted", "["+strings.Join(attrs, ", ")+"]"))
	return b.String()
}
