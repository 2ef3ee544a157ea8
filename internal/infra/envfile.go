package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// EnvFile implements domain.EnvFileStore.
//
// Writing is done by hand rather than through godotenv.Marshal: the
// bot's systemd EnvironmentFile consumer expects raw unquoted
// KEY=value lines, and Marshal quotes string values. Reading goes
// through godotenv, which tolerates both forms.
type EnvFile struct{}

// NewEnvFile creates the environment file store.
func NewEnvFile() *EnvFile {
	return &EnvFile{}
}

// Write serializes cfg to <install-dir>/.env, overwriting any previous
// capture. The admin ID is deliberately written under two keys; the bot
// reads both independently.
func (e *EnvFile) Write(cfg domain.InstallConfig) error {
	if err := os.MkdirAll(cfg.InstallDir, 0755); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s\n", domain.EnvKeyDiscordToken, cfg.DiscordToken)
	fmt.Fprintf(&b, "%s=%s\n", domain.EnvKeyMainAdminID, cfg.AdminID)
	fmt.Fprintf(&b, "%s=%s\n", domain.EnvKeyUserRoleID, cfg.AdminID)
	fmt.Fprintf(&b, "%s=%s\n", domain.EnvKeyStoragePool, cfg.StoragePool)

	path := cfg.EnvFilePath()
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("write env file %s: %w", path, err)
	}
	return nil
}

// Read loads the environment file from the install directory.
func (e *EnvFile) Read(installDir string) (map[string]string, error) {
	return godotenv.Read(filepath.Join(installDir, domain.EnvFileName))
}

// Ensure EnvFile implements domain.EnvFileStore.
var _ domain.EnvFileStore = (*EnvFile)(nil)
