// Package depspec parses pacman-style dependency strings and evaluates
// version constraints against candidate versions.
//
// A dependency string is a package name optionally followed by a comparison
// operator and a version, for example "glibc", "python>=3.11" or
// "openssl=3.2.1-1". Optional dependencies may additionally carry a
// ": description" suffix which is kept separately.
//
// Version comparison follows pacman's own epoch:version-release ordering
// (see Compare), so a constraint is satisfied exactly when pacman would
// consider it satisfied.
package depspec
