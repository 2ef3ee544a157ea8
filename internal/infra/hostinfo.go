package infra

import (
	"strings"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// FindProcessByName returns the PID of the first process whose name
// matches (case-insensitive), and whether one was found.
func FindProcessByName(name string) (int32, bool) {
	procs, err := process.Processes()
	if err != nil {
		return 0, false
	}
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil {
			continue // process may have exited
		}
		if strings.EqualFold(pname, name) {
			return p.Pid, true
		}
	}
	return 0, false
}

// HostSnapshot is a point-in-time view of host resources, shown by the
// status command.
type HostSnapshot struct {
	MemTotalMB    uint64
	MemUsedMB     uint64
	MemUsedPct    float64
	LXDRunning    bool
	LXDPid        int32
	SocketPresent bool
}

// SnapshotHost gathers the host view for status reporting.
func SnapshotHost(daemonSocketReady bool) HostSnapshot {
	snap := HostSnapshot{SocketPresent: daemonSocketReady}

	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemTotalMB = vm.Total / 1024 / 1024
		snap.MemUsedMB = vm.Used / 1024 / 1024
		snap.MemUsedPct = vm.UsedPercent
	}

	snap.LXDPid, snap.LXDRunning = FindProcessByName("lxd")
	return snap
}
