package session

import (
	"github.com/arthur-debert/rah/pkg/config"
	"github.com/arthur-debert/rah/pkg/pacman"
)

// Preflight runs the execution context checks enabled in cfg. The root
// check only applies to commands that change the system.
func Preflight(cfg *config.Config, modifiesSystem bool) error {
	if cfg.Preflight.CheckOS {
		if err := pacman.CheckExecContext(pacman.DefaultOSRelease); err != nil {
			return err
		}
	}
	if modifiesSystem && cfg.Preflight.RequireRoot {
		if err := pacman.RequireRoot(pacman.CurrentUID()); err != nil {
			return err
		}
	}
	return nil
}
