package audit

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/i1is/trustplane/pkg/models"
	"github.com/prometheus/procfs"
)

// ticksPerSecond is USER_HZ, effectively always 100 on Linux.
const ticksPerSecond = 100

// DiscoverProcesses enumerates every process via procfs. cpuCount is used
// as each process's maximum CPU capability (spec §3 UsageMetric). Kernel
// threads and processes this user can't read are skipped, never fail the
// scan (spec §4.2, §7).
func DiscoverProcesses(ctx context.Context, cpuCount int) ([]models.ProcessInfo, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("audit: open procfs: %w", err)
	}

	sysStat, err := fs.Stat()
	if err != nil {
		return nil, fmt.Errorf("audit: read /proc/stat: %w", err)
	}
	bootTime := time.Unix(int64(sysStat.BootTime), 0)

	procs, err := fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("audit: list processes: %w", err)
	}

	now := time.Now()
	maxCPU := float64(cpuCount)
	if maxCPU <= 0 {
		maxCPU = 1
	}

	var out []models.ProcessInfo
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		info, ok := discoverOneProcess(p, bootTime, now, maxCPU)
		if !ok {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

func discoverOneProcess(p procfs.Proc, bootTime, now time.Time, maxCPU float64) (models.ProcessInfo, bool) {
	stat, err := p.Stat()
	if err != nil {
		// Permission failures and processes that exited mid-scan are
		// expected under normal operation; log at low volume and move on.
		log.Printf("[audit] skipping pid %d: %v", p.PID, err)
		return models.ProcessInfo{}, false
	}

	comm, err := p.Comm()
	if err != nil || comm == "" {
		comm = stat.Comm
	}
	cmdline, err := p.CmdLine()
	if err != nil {
		cmdline = nil
	}
	exe, err := p.Executable()
	if err != nil {
		exe = ""
	}

	startedAt := bootTime.Add(time.Duration(float64(stat.Starttime) / ticksPerSecond * float64(time.Second)))
	programUptime := now.Sub(startedAt).Seconds()
	if programUptime < 0 {
		programUptime = 0
	}
	cpuSecs := float64(stat.UTime+stat.STime) / ticksPerSecond
	var avgCPU float64
	if programUptime > 0 {
		avgCPU = cpuSecs / programUptime
	}
	systemUptime := now.Sub(bootTime).Seconds()

	return models.ProcessInfo{
		PID:   int32(p.PID),
		Name:  comm,
		Exe:   exe,
		Args:  cmdline,
		UID:   readUID(p.PID),
		Usage: models.NewUsageMetric(programUptime, systemUptime, avgCPU, maxCPU),
	}, true
}

// readUID reads the real UID from /proc/<pid>/status directly; procfs
// doesn't expose it as a typed field, and this is cheap enough not to
// warrant its own abstraction.
func readUID(pid int) uint32 {
	f, err := os.Open(fmt.Sprintf("/proc/%d/status", pid))
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Uid:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			if v, err := strconv.ParseUint(fields[1], 10, 32); err == nil {
				return uint32(v)
			}
		}
	}
	return 0
}
