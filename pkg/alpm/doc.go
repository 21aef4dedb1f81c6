// Package alpm is a read-only view of the pacman package databases.
//
// The local database is the directory tree pacman keeps under
// <dbpath>/local, one directory per installed package holding a "desc"
// file. Sync databases are the <dbpath>/sync/<repo>.db archives downloaded
// by pacman -Sy: tar streams, optionally gzip or zstd compressed, with the
// same per-package "desc" layout.
//
// Nothing in this package writes to the databases. Handles are opened once
// per invocation and passed down explicitly to whoever needs to query them.
package alpm
