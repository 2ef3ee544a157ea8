// Package main is the CLI entry point for rcsetup.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rathamcloud/rcsetup/internal/domain"
	"github.com/rathamcloud/rcsetup/internal/infra"
	"github.com/rathamcloud/rcsetup/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rcsetup",
	Short: "Provision and tear down the RathamCloud bot host",
	Long: `rcsetup brings a Linux host from any state to a running RathamCloud
bot service backed by LXD, and can reverse that safely.

Every run re-queries the host, so rcsetup is safe to re-run at any
time: packages, the storage pool and the service unit are never
duplicated.`,
	Version: versionString(),
}

// versionString combines the ldflags-injected build identifiers for the
// --version output.
func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime)
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision the host and start the bot service",
	Long: `Installs the base packages, activates LXD, ensures the storage pool,
fetches the bot source, generates the RTC wrapper, captures the bot
configuration interactively and starts the systemd service.`,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Stop the bot service and remove its artifacts",
	Long: `Stops and disables the service, removes the unit file and the RTC
wrapper, then asks before removing the install directory and before
removing LXD itself. Declining either question skips only that step.`,
	RunE: runUninstall,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the host's provisioning state",
	RunE:  runStatus,
}

var (
	installDir string
	poolName   string
	repoURL    string
	assumeYes  bool
)

func init() {
	for _, c := range []*cobra.Command{installCmd, uninstallCmd, statusCmd} {
		c.Flags().StringVar(&installDir, "install-dir", infra.DefaultInstallDir, "Bot install directory")
	}
	installCmd.Flags().StringVar(&poolName, "pool", infra.DefaultStoragePool, "LXD storage pool name")
	installCmd.Flags().StringVar(&repoURL, "repo", infra.DefaultRepoURL, "Bot source repository URL")
	uninstallCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to all confirmation prompts")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	ensureSnapPath()

	logger := createLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := infra.NewExecRunner()
	snap := infra.NewSnapStrategy(runner)
	lxd := infra.NewLXDController(runner, snap)
	activator := usecase.NewActivator(lxd, infra.NewSleeper(), logger)

	installer := usecase.NewInstaller(
		infra.BasePackages,
		infra.NewAptStrategy(runner),
		activator,
		lxd,
		infra.NewGitFetcher(runner, logger),
		infra.NewWrapperGenerator(runner),
		infra.NewEnvFile(),
		infra.NewConsolePrompter(),
		infra.NewSystemdManager(runner),
		logger,
	)

	cfg := domain.InstallConfig{
		InstallDir:  installDir,
		StoragePool: poolName,
		RepoURL:     repoURL,
	}

	cfg, err := installer.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}

	fmt.Println("\n=== RathamCloud bot installed ===")
	fmt.Printf("Install dir:  %s\n", cfg.InstallDir)
	fmt.Printf("Storage pool: %s\n", cfg.StoragePool)
	fmt.Printf("Wrapper:      %s\n", infra.WrapperPath)
	fmt.Println("Service:      running (enabled on boot)")
	fmt.Println("=================================")
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ensureSnapPath()

	logger := createLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := infra.NewExecRunner()
	snap := infra.NewSnapStrategy(runner)
	lxd := infra.NewLXDController(runner, snap)

	uninstaller := usecase.NewUninstaller(
		infra.NewSystemdManager(runner),
		infra.NewWrapperGenerator(runner),
		lxd,
		infra.NewFileSystem(),
		infra.NewConsolePrompter(),
		installDir,
		assumeYes,
		logger,
	)

	if err := uninstaller.Run(ctx); err != nil {
		return fmt.Errorf("uninstall failed: %w", err)
	}

	fmt.Println("\nRathamCloud bot uninstalled.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ensureSnapPath()

	runner := infra.NewExecRunner()
	snap := infra.NewSnapStrategy(runner)
	lxd := infra.NewLXDController(runner, snap)
	service := infra.NewSystemdManager(runner)
	envStore := infra.NewEnvFile()

	state := domain.ServiceStateOf(service.IsUnitInstalled(), service.IsEnabled(), service.IsActive())
	host := infra.SnapshotHost(lxd.SocketReady())

	fmt.Println("\n=== RathamCloud host status ===")
	fmt.Printf("Service:       %s\n", state)
	fmt.Printf("Daemon socket: %v\n", host.SocketPresent)
	if host.LXDRunning {
		fmt.Printf("LXD process:   running (pid %d)\n", host.LXDPid)
	} else {
		fmt.Println("LXD process:   not running")
	}

	if _, err := os.Stat(infra.WrapperPath); err == nil {
		fmt.Printf("Wrapper:       %s\n", infra.WrapperPath)
	} else {
		fmt.Println("Wrapper:       missing")
	}

	if env, err := envStore.Read(installDir); err == nil {
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		fmt.Printf("Config:        %s (%s)\n", installDir, strings.Join(keys, ", "))
	} else {
		fmt.Println("Config:        not captured")
	}

	fmt.Printf("Memory:        %d/%d MB (%.0f%%)\n", host.MemUsedMB, host.MemTotalMB, host.MemUsedPct)
	fmt.Println("===============================")
	return nil
}

// ensureSnapPath makes snap-managed tools (lxd, lxc) discoverable even
// when the caller's PATH omits /snap/bin. The directory is prepended so
// the snap-provided binaries win resolution.
func ensureSnapPath() {
	path := os.Getenv("PATH")
	for _, dir := range strings.Split(path, string(os.PathListSeparator)) {
		if dir == infra.SnapBinDir {
			return
		}
	}
	os.Setenv("PATH", infra.SnapBinDir+string(os.PathListSeparator)+path)
}

func createLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"/var/log/rcsetup.log", "stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		// Fallback to stdout if file logging fails
		logger, _ = zap.NewProduction()
	}
	return logger
}
