// Package domain defines the entities and capability interfaces of the
// RathamCloud setup tool.
package domain

import (
	"path/filepath"
	"strings"
)

// InstallConfig is the operator-supplied configuration captured during
// install. It is persisted as a flat environment file under the install
// directory and consumed by the bot service.
type InstallConfig struct {
	// DiscordToken is the bot's Discord API token. May be empty; the
	// installer does not validate operator input.
	DiscordToken string

	// AdminID is the Discord ID of the main administrator. It is written
	// to the environment file twice, once as the main admin and once as
	// the default user role, because the bot reads both keys.
	AdminID string

	// InstallDir is where the bot source tree and environment file live.
	InstallDir string

	// StoragePool is the LXD storage pool containers are created in.
	StoragePool string

	// RepoURL is the git URL the bot source is cloned from.
	RepoURL string
}

// EnvFileName is the environment file name under the install directory.
const EnvFileName = ".env"

// UnitFileName is the bot's service unit file name, both as shipped in
// the bot repository and as installed into the init system.
const UnitFileName = "rathamcloud-bot.service"

// UnitSourcePath returns where a repo-shipped unit descriptor would sit
// in the fetched source tree.
func (c InstallConfig) UnitSourcePath() string {
	return filepath.Join(c.InstallDir, UnitFileName)
}

// EnvFilePath returns the environment file path for the config's install
// directory.
func (c InstallConfig) EnvFilePath() string {
	return filepath.Join(c.InstallDir, EnvFileName)
}

// Environment file keys, in the order they are written.
const (
	EnvKeyDiscordToken = "DISCORD_TOKEN"
	EnvKeyMainAdminID  = "MAIN_ADMIN_ID"
	EnvKeyUserRoleID   = "VPS_USER_ROLE_ID"
	EnvKeyStoragePool  = "DEFAULT_STORAGE_POOL"
)

// ServiceState describes where the bot's systemd unit sits in its
// install/enable/activate lifecycle.
type ServiceState string

const (
	// ServiceNotInstalled means no unit file is present.
	ServiceNotInstalled ServiceState = "not-installed"
	// ServiceDisabled means the unit file exists but is not enabled.
	ServiceDisabled ServiceState = "installed-disabled"
	// ServiceEnabledInactive means the unit is enabled but not running.
	ServiceEnabledInactive ServiceState = "installed-enabled-inactive"
	// ServiceActive is the terminal success state of an install run.
	ServiceActive ServiceState = "installed-enabled-active"
)

// ServiceStateOf derives the lifecycle state from the three host queries.
func ServiceStateOf(installed, enabled, active bool) ServiceState {
	switch {
	case !installed:
		return ServiceNotInstalled
	case active:
		return ServiceActive
	case enabled:
		return ServiceEnabledInactive
	default:
		return ServiceDisabled
	}
}

// Decision is the outcome of a confirmation gate.
type Decision int

const (
	// Skip leaves the guarded action untaken. It is the default.
	Skip Decision = iota
	// Proceed performs the guarded action.
	Proceed
)

// ParseDecision maps an operator response to a gate decision. Only a
// case-insensitive "y" or "yes" proceeds; anything else, including an
// empty response, skips.
func ParseDecision(response string) Decision {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes":
		return Proceed
	default:
		return Skip
	}
}
