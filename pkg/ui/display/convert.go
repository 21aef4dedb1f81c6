package display

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/aur"
	"github.com/arthur-debert/rah/pkg/commands/query"
	aursync "github.com/arthur-debert/rah/pkg/commands/sync"
	"github.com/arthur-debert/rah/pkg/deptree"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/dustin/go-humanize"
)

// AURPackageURL is the web page of an AUR package, formatted with its name
const AURPackageURL = "https://aur.archlinux.org/packages/%s"

const (
	none       = "None"
	dateLayout = "Mon 02 Jan 2006 15:04:05 MST"
)

// FromLocal converts a local query result. Detailed lists add the
// description under each package.
func FromLocal(res *query.Result, detailed bool) *PackageList {
	out := &PackageList{ShowDescription: detailed}
	if res == nil {
		return out
	}
	for _, p := range res.Packages {
		out.Packages = append(out.Packages, PackageLine{
			Source:      "local",
			Name:        p.Name,
			Version:     p.Version,
			Description: p.Description,
		})
	}
	out.Missing = res.Missing
	return out
}

// FromSearch converts AUR search hits
func FromSearch(res *aursync.SearchResult) *PackageList {
	out := &PackageList{ShowSource: true, ShowDescription: true}
	if res == nil {
		return out
	}
	for _, h := range res.Hits {
		out.Packages = append(out.Packages, PackageLine{
			Source:      "aur",
			Name:        h.Record.Name,
			Version:     h.Record.Version,
			Description: h.Record.Description,
			Installed:   h.InstalledVersion,
			OutOfDate:   h.Record.IsOutOfDate(),
		})
	}
	return out
}

// FromLocalInfo converts a local query result into detailed views
func FromLocalInfo(res *query.Result) *DetailsList {
	out := &DetailsList{}
	if res == nil {
		return out
	}
	for _, p := range res.Packages {
		out.Packages = append(out.Packages, LocalDetails(p))
	}
	out.Missing = res.Missing
	return out
}

// LocalDetails lays out an installed package the way pacman -Qi does
func LocalDetails(p *alpm.Package) PackageDetails {
	return PackageDetails{
		Name: p.Name,
		Fields: []Field{
			{"Name", p.Name},
			{"Version", p.Version},
			{"Description", p.Description},
			{"Architecture", orNone(p.Arch)},
			{"URL", orNone(p.URL)},
			{"Licenses", list(p.Licenses)},
			{"Groups", list(p.Groups)},
			{"Provides", list(p.Provides)},
			{"Depends On", list(p.Depends)},
			{"Optional Deps", list(p.OptDepends)},
			{"Conflicts With", list(p.Conflicts)},
			{"Replaces", list(p.Replaces)},
			{"Installed Size", size(p.InstalledSize)},
			{"Packager", orNone(p.Packager)},
			{"Build Date", date(p.BuildDate)},
			{"Install Date", date(p.InstallDate)},
			{"Install Reason", p.Reason.String()},
		},
	}
}

// FromAURInfo converts AUR info records into detailed views
func FromAURInfo(res *aursync.InfoResult) *DetailsList {
	out := &DetailsList{}
	if res == nil {
		return out
	}
	for i := range res.Records {
		out.Packages = append(out.Packages, AURDetails(&res.Records[i]))
	}
	out.Missing = res.Missing
	return out
}

// AURDetails lays out an AUR record
func AURDetails(r *aur.Record) PackageDetails {
	outOfDate := "No"
	if r.IsOutOfDate() {
		outOfDate = "Yes [" + date(r.OutOfDateSince()) + "]"
	}
	return PackageDetails{
		Name: r.Name,
		Fields: []Field{
			{"Repository", "aur"},
			{"Name", r.Name},
			{"Version", r.Version},
			{"Description", r.Description},
			{"URL", orNone(r.URL)},
			{"AUR URL", fmt.Sprintf(AURPackageURL, r.Name)},
			{"Package Base", r.PackageBase},
			{"Licenses", list(r.License)},
			{"Groups", list(r.Groups)},
			{"Provides", list(r.Provides)},
			{"Depends On", list(r.Depends)},
			{"Make Deps", list(r.MakeDepends)},
			{"Check Deps", list(r.CheckDepends)},
			{"Optional Deps", list(r.OptDepends)},
			{"Conflicts With", list(r.Conflicts)},
			{"Maintainer", orNone(r.Maintainer)},
			{"Votes", fmt.Sprintf("%d", r.NumVotes)},
			{"Popularity", fmt.Sprintf("%.2f", r.Popularity)},
			{"First Submitted", date(time.Unix(r.FirstSubmitted, 0))},
			{"Last Modified", date(time.Unix(r.LastModified, 0))},
			{"Out-of-date", outOfDate},
		},
	}
}

// FromPlan converts a resolved forest and its plan. withTree adds the
// forest as indented lines.
func FromPlan(targets []string, res *aursync.PlanResult, withTree bool) *InstallPlan {
	out := &InstallPlan{Targets: targets}
	if res == nil {
		return out
	}
	if res.Plan != nil {
		out.Repo = planEntries(res.Plan.Repo)
		out.AUR = planEntries(res.Plan.AUR)
		out.Bases = res.Plan.Bases()
	}

	f := res.Forest
	if f == nil {
		return out
	}
	for _, u := range f.Unresolved {
		p := Problem{
			Spec:       u.Spec,
			Kind:       u.Kind.String(),
			RequiredBy: u.RequiredBy,
			Reason:     u.Reason.String(),
		}
		if u.Err != nil {
			p.Detail = message(u.Err)
		}
		out.Unresolved = append(out.Unresolved, p)
	}
	for _, a := range f.Ambiguous {
		out.Ambiguous = append(out.Ambiguous, Problem{
			Spec:       a.Spec,
			Kind:       a.Kind.String(),
			RequiredBy: a.RequiredBy,
			Reason:     "ambiguous",
			Candidates: a.Candidates,
		})
	}
	for _, o := range f.Optional {
		p := Problem{
			Spec:       o.Spec,
			Kind:       deptree.KindOptional.String(),
			RequiredBy: o.RequiredBy,
			Detail:     o.Description,
		}
		if o.Node != nil {
			p.Reason = o.Node.Outcome.Status.String()
			p.Candidates = o.Node.Outcome.Candidates
		}
		out.Optional = append(out.Optional, p)
	}
	out.AURRequests = f.Stats.AURInfoCalls + f.Stats.AURSearchCalls

	if withTree {
		f.Walk(func(n *deptree.Node, depth int) bool {
			line := TreeLine{
				Depth:  depth,
				Name:   n.Name(),
				Kind:   n.Kind.String(),
				Status: n.Outcome.Status.String(),
				Shared: n.Shared,
				Cycle:  n.Cycle,
			}
			if n.Package != nil {
				line.Version = n.Package.Version()
				line.Source = n.Package.Source()
			}
			out.Tree = append(out.Tree, line)
			return true
		})
	}
	return out
}

func planEntries(items []deptree.PlanItem) []PlanEntry {
	entries := make([]PlanEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, PlanEntry{
			Name:       it.Name(),
			Version:    it.Package.Version(),
			Source:     it.Package.Source(),
			Base:       it.PackageBase(),
			Kind:       it.Kind.String(),
			AsDeps:     it.AsDeps,
			RequiredBy: it.RequiredBy,
		})
	}
	return entries
}

// message drops the code prefix of coded errors
func message(err error) string {
	var rahErr *errors.RahError
	if stderrors.As(err, &rahErr) {
		return rahErr.Message
	}
	return err.Error()
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func list(items []string) string {
	if len(items) == 0 {
		return none
	}
	return strings.Join(items, "  ")
}

func size(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	return humanize.IBytes(uint64(n))
}

func date(t time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return none
	}
	return t.Format(dateLayout)
}
