// Package display holds the view models rendered by the ui renderers.
// Command results are converted into these types so the terminal and JSON
// renderers share one shape.
package display

// PackageLine is one package in a listing
type PackageLine struct {
	// Source is the repository name, "local" or "aur"
	Source      string `json:"source"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	// Installed is the locally installed version, if any
	Installed string `json:"installed,omitempty"`
	OutOfDate bool   `json:"outOfDate,omitempty"`
}

// PackageList is the output of list and search commands
type PackageList struct {
	Packages []PackageLine `json:"packages"`
	Missing  []string      `json:"missing,omitempty"`
	// ShowSource prefixes each line with "source/"
	ShowSource bool `json:"-"`
	// ShowDescription prints the description under each line
	ShowDescription bool `json:"-"`
}

// Field is one labelled value of a detailed view
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PackageDetails is the detailed view of one package
type PackageDetails struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// DetailsList is the output of info commands
type DetailsList struct {
	Packages []PackageDetails `json:"packages"`
	Missing  []string         `json:"missing,omitempty"`
}

// PlanEntry is one package of an install plan
type PlanEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Source  string `json:"source"`
	// Base is the AUR package base; repo packages repeat the name
	Base       string   `json:"base"`
	Kind       string   `json:"kind"`
	AsDeps     bool     `json:"asDeps"`
	RequiredBy []string `json:"requiredBy,omitempty"`
}

// Problem is a dependency that blocks or is left out of the plan
type Problem struct {
	Spec       string   `json:"spec"`
	Kind       string   `json:"kind"`
	RequiredBy string   `json:"requiredBy,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Detail     string   `json:"detail,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

// TreeLine is one node of the rendered dependency forest
type TreeLine struct {
	Depth   int    `json:"depth"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Kind    string `json:"kind"`
	Status  string `json:"status"`
	Source  string `json:"source,omitempty"`
	Shared  bool   `json:"shared,omitempty"`
	Cycle   bool   `json:"cycle,omitempty"`
}

// InstallPlan is the output of sync with targets
type InstallPlan struct {
	Targets    []string    `json:"targets"`
	Repo       []PlanEntry `json:"repo"`
	AUR        []PlanEntry `json:"aur"`
	Unresolved []Problem   `json:"unresolved,omitempty"`
	Ambiguous  []Problem   `json:"ambiguous,omitempty"`
	Optional   []Problem   `json:"optional,omitempty"`
	Tree       []TreeLine  `json:"tree,omitempty"`
	// Bases are the AUR package bases to build, in build order
	Bases []string `json:"bases,omitempty"`
	// AURRequests counts the info and search calls made while resolving
	AURRequests int64 `json:"aurRequests"`
}

// Complete reports whether every mandatory dependency was resolved
func (p *InstallPlan) Complete() bool {
	return len(p.Unresolved) == 0 && len(p.Ambiguous) == 0
}

// Empty reports whether there is nothing to install
func (p *InstallPlan) Empty() bool {
	return len(p.Repo) == 0 && len(p.AUR) == 0
}

// Message is a one-line notice, such as a warning
type Message struct {
	Level string `json:"level"`
	Text  string `json:"message"`
}
