// Package deptree resolves a set of target packages into a dependency
// forest and an ordered build/install plan.
//
// Resolution is breadth first. Every dependency edge of the current
// frontier is classified against, in order, the local database, the sync
// databases in priority order and finally the AUR. Local and sync lookups
// are in-process; the AUR names a level still needs are batched into one
// info request and the remaining per-name lookups fan out concurrently,
// bounded by Options.MaxConcurrency. Results are merged back in edge order,
// so the forest does not depend on network timing.
//
// A dependency spec is resolved once per run. Later edges to the same spec,
// or to a package already expanded through another spec, are attached as
// shared references; an edge back to an ancestor is attached as a cycle
// marker. Neither is expanded again, which keeps the walk finite.
//
// Missing and ambiguous dependencies never abort a run: they are recorded
// on the forest and reported together through a *ResolutionError. Only
// failures that leave no usable context (cancellation, an unreachable AUR,
// a failing pacman check) abort Build.
package deptree
