package rah

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "An AUR helper that resolves dependencies before building anything"
	MsgQueryShort      = "Query the local package database"
	MsgSyncShort       = "Search the AUR and resolve packages to install"
	MsgGenConfigShort  = "Print a configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Configuration file (default $XDG_CONFIG_HOME/rah/config.toml)"
	MsgFlagColor     = "Colorize output: auto, always or never"
	MsgFlagOutput    = "Output format: auto, term, text or json"
	MsgFlagSearch    = "Search packages matching the given terms"
	MsgFlagInfo      = "Show detailed information about packages"
	MsgFlagTree      = "Print the dependency tree before the plan"
	MsgFlagEffective = "Print the effective configuration instead of the commented defaults"
	MsgFlagWrite     = "Write the configuration file instead of printing it"

	// Version output
	MsgVersionFormat = "rah version %s\n  commit: %s\n  built:  %s\n"

	MsgConfigWritten = "wrote %s\n"

	// Errors
	MsgErrNoCommand = "no command specified"
	MsgErrNoTargets = "no targets specified"
	MsgErrNoTerms   = "no search terms given"
)

// Long messages
const (
	MsgRootLong = `rah is an AUR helper for Arch Linux.

Before anything is built it resolves the complete dependency forest of the
requested packages against the installed packages, the sync repositories and
the AUR, and prints the order in which packages would be installed.`

	MsgQueryLong = `Query the local package database.

Without flags, prints the name and version of the named installed packages,
or of every installed package when no name is given.`

	MsgQueryExample = `  rah query                 # every installed package
  rah query go git          # name and version of go and git
  rah query -s '^python-'   # regular expression search
  rah query -i go           # detailed information`

	MsgSyncLong = `Search the AUR, show AUR package details, or resolve targets.

With targets and no flags, every dependency is resolved against the local
database, the sync repositories and the AUR. The resulting install plan is
printed; rah exits with an error when some dependency cannot be resolved.`

	MsgSyncExample = `  rah sync -s paru           # search the AUR
  rah sync -i paru yay       # AUR package details
  rah sync paru              # resolve paru and print the install plan
  rah sync --tree paru       # also print the dependency tree`

	MsgGenConfigLong = `Print a configuration file with every setting commented out.

With --effective the configuration rah actually uses is printed instead, after
the config file, RAH_* environment variables and flags were applied. With
--write the content is saved to the file given by -c, or to
$XDG_CONFIG_HOME/rah/config.toml. An existing file is never overwritten.`

	MsgCompletionLong = `To load completions:

Bash:
  $ source <(rah completion bash)

Zsh:
  $ rah completion zsh > "${fpath[1]}/_rah"

Fish:
  $ rah completion fish | source

PowerShell:
  PS> rah completion powershell | Out-String | Invoke-Expression
`
)
