package alpm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// parseDesc reads a pacman "desc" (or legacy "depends") file into pkg.
// The format is a sequence of "%KEY%" headers, each followed by one value
// per line and terminated by a blank line.
func parseDesc(r io.Reader, pkg *Package) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var key string
	var values []string
	flush := func() {
		if key != "" {
			applyField(pkg, key, values)
		}
		key, values = "", nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "":
			flush()
		case key == "" && len(line) > 2 && strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%"):
			key = strings.Trim(line, "%")
		case key != "":
			values = append(values, line)
		}
	}
	flush()
	return scanner.Err()
}

func applyField(pkg *Package, key string, values []string) {
	first := ""
	if len(values) > 0 {
		first = values[0]
	}
	switch key {
	case "NAME":
		pkg.Name = first
	case "VERSION":
		pkg.Version = first
	case "BASE":
		pkg.Base = first
	case "DESC":
		pkg.Description = first
	case "URL":
		pkg.URL = first
	case "ARCH":
		pkg.Arch = first
	case "PACKAGER":
		pkg.Packager = first
	case "BUILDDATE":
		pkg.BuildDate = parseUnix(first)
	case "INSTALLDATE":
		pkg.InstallDate = parseUnix(first)
	case "SIZE", "CSIZE":
		pkg.Size = parseInt(first)
	case "ISIZE":
		pkg.InstalledSize = parseInt(first)
	case "REASON":
		if first == "1" {
			pkg.Reason = ReasonDepend
		}
	case "LICENSE":
		pkg.Licenses = append(pkg.Licenses, values...)
	case "GROUPS":
		pkg.Groups = append(pkg.Groups, values...)
	case "DEPENDS":
		pkg.Depends = append(pkg.Depends, values...)
	case "OPTDEPENDS":
		pkg.OptDepends = append(pkg.OptDepends, values...)
	case "MAKEDEPENDS":
		pkg.MakeDepends = append(pkg.MakeDepends, values...)
	case "CHECKDEPENDS":
		pkg.CheckDepends = append(pkg.CheckDepends, values...)
	case "PROVIDES":
		pkg.Provides = append(pkg.Provides, values...)
	case "CONFLICTS":
		pkg.Conflicts = append(pkg.Conflicts, values...)
	case "REPLACES":
		pkg.Replaces = append(pkg.Replaces, values...)
	}
}

func parseUnix(s string) time.Time {
	n := parseInt(s)
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(n, 0)
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
