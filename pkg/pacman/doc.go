// Package pacman wraps the parts of the system package manager rah shells
// out to: the dependency satisfiability check ("pacman -T") and the
// pre-flight checks that decide whether rah may run on this system at all.
package pacman
