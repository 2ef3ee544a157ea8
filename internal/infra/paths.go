// Package infra implements the host-facing capabilities (packages,
// daemon, systemd, filesystem, prompts).
package infra

// Fixed host paths and names. The wrapper lives outside the install
// directory so it stays globally callable and survives re-installs of
// the bot tree.
const (
	// DefaultInstallDir is where the bot source and environment file live.
	DefaultInstallDir = "/opt/rathamcloud"

	// DefaultRepoURL is the bot source repository.
	DefaultRepoURL = "https://github.com/rathamcloud/rathamcloud-bot.git"

	// DefaultStoragePool is the LXD pool containers are created in.
	DefaultStoragePool = "default"

	// WrapperPath is the fixed path of the generated RTC wrapper.
	WrapperPath = "/usr/local/bin/RTC"

	// SystemdUnitDir is where the unit descriptor is installed.
	SystemdUnitDir = "/etc/systemd/system"

	// SnapBinDir holds snap-managed binaries; prepended to PATH at
	// startup so daemon-provided tools are discoverable and win
	// resolution.
	SnapBinDir = "/snap/bin"
)

// BasePackages are the OS packages every install run ensures first.
var BasePackages = []string{"curl", "git", "python3", "python3-pip", "snapd"}
