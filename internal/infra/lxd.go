package infra

import (
	"fmt"
	"os"
	"strings"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// Candidate control socket paths. Snap installs put the socket under
// /var/snap; native packages under /var/lib.
var lxdSocketPaths = []string{
	"/var/snap/lxd/common/lxd/unix.socket",
	"/var/lib/lxd/unix.socket",
}

// lxdServiceName is the systemd unit the snap registers for the daemon,
// queried only for diagnostics.
const lxdServiceName = "snap.lxd.daemon"

// LXDController implements domain.DaemonController and
// domain.StorageManager against a real LXD installation.
type LXDController struct {
	runner      domain.CommandRunner
	snap        domain.PackageStrategy
	socketPaths []string
}

// NewLXDController creates the LXD controller. The daemon itself is
// installed through the snap strategy.
func NewLXDController(runner domain.CommandRunner, snap domain.PackageStrategy) *LXDController {
	return &LXDController{
		runner:      runner,
		snap:        snap,
		socketPaths: lxdSocketPaths,
	}
}

// NewLXDControllerWithSockets creates a controller probing custom socket
// paths (for testing).
func NewLXDControllerWithSockets(runner domain.CommandRunner, snap domain.PackageStrategy, sockets []string) *LXDController {
	return &LXDController{runner: runner, snap: snap, socketPaths: sockets}
}

// IsInstalled checks if the lxd snap is present.
func (c *LXDController) IsInstalled() bool {
	return c.snap.IsInstalled("lxd")
}

// Install installs the lxd snap.
func (c *LXDController) Install() error {
	return c.snap.Install("lxd")
}

// Start issues the daemon start command. Startup continues
// asynchronously; callers poll SocketReady.
func (c *LXDController) Start() error {
	if err := c.runner.Run("snap", "start", "lxd"); err != nil {
		return fmt.Errorf("start lxd daemon: %w", err)
	}
	return nil
}

// SocketReady checks if any known control socket path exists.
func (c *LXDController) SocketReady() bool {
	for _, path := range c.socketPaths {
		if _, err := os.Stat(path); err == nil {
			return true
		}
	}
	return false
}

// AutoInit configures the daemon's default network and storage. A
// pre-initialized daemon makes this fail; the caller tolerates that.
func (c *LXDController) AutoInit() error {
	return c.runner.Run("lxd", "init", "--auto")
}

// StatusDump collects the daemon's service status and whether an lxd
// process exists, for the operator's benefit when the socket never
// appears.
func (c *LXDController) StatusDump() string {
	var b strings.Builder

	out, _ := c.runner.Output("systemctl", "status", lxdServiceName, "--no-pager")
	if out != "" {
		b.WriteString(out)
	} else {
		b.WriteString("no status output from systemctl")
	}

	if pid, running := FindProcessByName("lxd"); running {
		fmt.Fprintf(&b, "\nlxd process running (pid %d) but socket missing", pid)
	} else {
		b.WriteString("\nno lxd process found")
	}

	return b.String()
}

// Remove uninstalls the lxd snap and its data.
func (c *LXDController) Remove() error {
	if err := c.runner.Run("snap", "remove", "lxd"); err != nil {
		return fmt.Errorf("snap remove lxd: %w", err)
	}
	return nil
}

// PoolExists checks if the named storage pool is registered.
func (c *LXDController) PoolExists(name string) bool {
	return c.runner.Run("lxc", "storage", "show", name) == nil
}

// CreatePool registers a dir-backed storage pool.
func (c *LXDController) CreatePool(name string) error {
	if err := c.runner.Run("lxc", "storage", "create", name, "dir"); err != nil {
		return fmt.Errorf("lxc storage create %s: %w", name, err)
	}
	return nil
}

// Ensure LXDController implements both daemon capabilities.
var (
	_ domain.DaemonController = (*LXDController)(nil)
	_ domain.StorageManager   = (*LXDController)(nil)
)
