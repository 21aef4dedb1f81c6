package pacman

import (
	"bufio"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
)

// DefaultOSRelease is where the distribution identifies itself
const DefaultOSRelease = "/etc/os-release"

const issueHint = "If this is wrong, please file an issue."

// CheckExecContext verifies that the system is Arch based by looking at
// the ID and ID_LIKE fields of the os-release file.
func CheckExecContext(osReleasePath string) error {
	logger := logging.GetLogger("pacman")

	f, err := os.Open(osReleasePath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrExecContext,
			"cannot read %s, this is probably not an Arch-based distribution. %s", osReleasePath, issueHint)
	}
	defer f.Close()

	fields := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok || strings.HasPrefix(key, "#") {
			continue
		}
		if unquoted, err := strconv.Unquote(value); err == nil {
			value = unquoted
		}
		fields[key] = strings.Trim(value, `'`)
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, errors.ErrExecContext, "cannot read %s", osReleasePath)
	}

	ids := append([]string{fields["ID"]}, strings.Fields(fields["ID_LIKE"])...)
	for _, id := range ids {
		if strings.EqualFold(id, "arch") {
			logger.Debug().Str("id", fields["ID"]).Str("idLike", fields["ID_LIKE"]).Msg("Arch-based distribution detected")
			return nil
		}
	}

	return errors.Newf(errors.ErrExecContext,
		"this is probably not an Arch-based distribution (ID=%q), rah should not be used on it. %s", fields["ID"], issueHint).
		WithDetail("id", fields["ID"]).
		WithDetail("id_like", fields["ID_LIKE"])
}

// RequireRoot fails unless uid is 0
func RequireRoot(uid int) error {
	logger := logging.GetLogger("pacman")
	logger.Debug().Int("uid", uid).Msg("Checking privileges")

	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "cannot identify current user (uid %d)", uid)
	}
	logger.Debug().Str("user", u.Username).Msg("Current user identified")

	if uid != 0 {
		return errors.New(errors.ErrPermission,
			"rah must be run as root, please launch it again with your favourite privilege escalation method").
			WithDetail("uid", uid)
	}
	return nil
}

// CurrentUID returns the effective user id of the process
func CurrentUID() int {
	return os.Geteuid()
}
