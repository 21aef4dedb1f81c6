package aur

import "time"

// Record is one package as returned by the info and search endpoints.
// Search results only fill the summary fields; dependency lists are only
// present in info results.
type Record struct {
	ID             int      `json:"ID"`
	Name           string   `json:"Name"`
	PackageBaseID  int      `json:"PackageBaseID"`
	PackageBase    string   `json:"PackageBase"`
	Version        string   `json:"Version"`
	Description    string   `json:"Description"`
	URL            string   `json:"URL"`
	URLPath        string   `json:"URLPath"`
	NumVotes       int      `json:"NumVotes"`
	Popularity     float64  `json:"Popularity"`
	OutOfDate      *int64   `json:"OutOfDate"`
	Maintainer     string   `json:"Maintainer"`
	Submitter      string   `json:"Submitter"`
	FirstSubmitted int64    `json:"FirstSubmitted"`
	LastModified   int64    `json:"LastModified"`
	Depends        []string `json:"Depends"`
	MakeDepends    []string `json:"MakeDepends"`
	CheckDepends   []string `json:"CheckDepends"`
	OptDepends     []string `json:"OptDepends"`
	Provides       []string `json:"Provides"`
	Conflicts      []string `json:"Conflicts"`
	Replaces       []string `json:"Replaces"`
	Groups         []string `json:"Groups"`
	License        []string `json:"License"`
	Keywords       []string `json:"Keywords"`
	CoMaintainers  []string `json:"CoMaintainers"`
}

// IsOutOfDate reports whether the package has been flagged out of date
func (r *Record) IsOutOfDate() bool {
	return r.OutOfDate != nil && *r.OutOfDate > 0
}

// OutOfDateSince returns when the package was flagged, or the zero time
func (r *Record) OutOfDateSince() time.Time {
	if !r.IsOutOfDate() {
		return time.Time{}
	}
	return time.Unix(*r.OutOfDate, 0)
}

// Orphaned reports whether the package has no maintainer
func (r *Record) Orphaned() bool {
	return r.Maintainer == ""
}

// response is the envelope of every RPC reply
type response struct {
	Version     int      `json:"version"`
	Type        string   `json:"type"`
	ResultCount int      `json:"resultcount"`
	Results     []Record `json:"results"`
	Error       string   `json:"error"`
}
