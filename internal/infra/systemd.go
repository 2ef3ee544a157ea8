package infra

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// Default unit descriptor, used only when the cloned bot repository does
// not ship its own service file.
const defaultUnitTemplate = `[Unit]
Description=RathamCloud Discord bot
After=network-online.target {{.DaemonUnit}}.service
Wants=network-online.target

[Service]
Type=simple
WorkingDirectory={{.InstallDir}}
EnvironmentFile={{.InstallDir}}/.env
ExecStart=/usr/bin/python3 {{.InstallDir}}/main.py
Restart=on-failure
RestartSec=5

[Install]
WantedBy=multi-user.target
`

type unitTemplateData struct {
	InstallDir string
	DaemonUnit string
}

// SystemdManager implements domain.ServiceManager with systemctl.
type SystemdManager struct {
	runner   domain.CommandRunner
	unitName string
	unitDir  string
}

// NewSystemdManager creates a manager for the bot unit in the system
// unit directory.
func NewSystemdManager(runner domain.CommandRunner) *SystemdManager {
	return &SystemdManager{
		runner:   runner,
		unitName: domain.UnitFileName,
		unitDir:  SystemdUnitDir,
	}
}

// NewSystemdManagerAt creates a manager with a custom unit directory
// (for testing).
func NewSystemdManagerAt(runner domain.CommandRunner, unitDir string) *SystemdManager {
	return &SystemdManager{runner: runner, unitName: domain.UnitFileName, unitDir: unitDir}
}

// UnitPath returns the installed unit file path.
func (m *SystemdManager) UnitPath() string {
	return filepath.Join(m.unitDir, m.unitName)
}

// InstallUnit places the unit descriptor. A descriptor shipped by the
// bot repository is copied verbatim and never parsed; otherwise a
// default one is generated. The previous unit file is replaced either
// way.
func (m *SystemdManager) InstallUnit(sourcePath string, cfg domain.InstallConfig) error {
	if err := os.MkdirAll(m.unitDir, 0755); err != nil {
		return err
	}

	content, err := m.unitContent(sourcePath, cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(m.UnitPath(), content, 0644); err != nil {
		return fmt.Errorf("write unit file: %w", err)
	}
	return nil
}

func (m *SystemdManager) unitContent(sourcePath string, cfg domain.InstallConfig) ([]byte, error) {
	if sourcePath != "" {
		if content, err := os.ReadFile(sourcePath); err == nil {
			return content, nil
		}
	}

	tmpl, err := template.New("unit").Parse(defaultUnitTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse unit template: %w", err)
	}

	var buf bytes.Buffer
	data := unitTemplateData{InstallDir: cfg.InstallDir, DaemonUnit: lxdServiceName}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render unit template: %w", err)
	}
	return buf.Bytes(), nil
}

// IsUnitInstalled checks if the unit file is present.
func (m *SystemdManager) IsUnitInstalled() bool {
	_, err := os.Stat(m.UnitPath())
	return err == nil
}

// Reload makes systemd re-read unit files.
func (m *SystemdManager) Reload() error {
	if err := m.runner.Run("systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("systemctl daemon-reload: %w", err)
	}
	return nil
}

// Enable marks the unit for start on boot. Enabling an enabled unit is
// a no-op for systemd.
func (m *SystemdManager) Enable() error {
	if err := m.runner.Run("systemctl", "enable", m.unitName); err != nil {
		return fmt.Errorf("systemctl enable %s: %w", m.unitName, err)
	}
	return nil
}

// Restart (re)starts the unit, valid from any installed state.
func (m *SystemdManager) Restart() error {
	if err := m.runner.Run("systemctl", "restart", m.unitName); err != nil {
		return fmt.Errorf("systemctl restart %s: %w", m.unitName, err)
	}
	return nil
}

// Stop stops the unit. systemctl treats stopping a stopped unit as
// success, so no error mapping is needed.
func (m *SystemdManager) Stop() error {
	return m.runner.Run("systemctl", "stop", m.unitName)
}

// Disable unmarks the unit.
func (m *SystemdManager) Disable() error {
	return m.runner.Run("systemctl", "disable", m.unitName)
}

// RemoveUnit deletes the unit file. A missing file is success.
func (m *SystemdManager) RemoveUnit() error {
	if err := os.Remove(m.UnitPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsEnabled checks if the unit is enabled.
func (m *SystemdManager) IsEnabled() bool {
	return m.runner.Run("systemctl", "is-enabled", "--quiet", m.unitName) == nil
}

// IsActive checks if the unit is running.
func (m *SystemdManager) IsActive() bool {
	return m.runner.Run("systemctl", "is-active", "--quiet", m.unitName) == nil
}

// Ensure SystemdManager implements domain.ServiceManager.
var _ domain.ServiceManager = (*SystemdManager)(nil)
