//go:build linux

package procsnap

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const clockTicks = 100 // USER_HZ; fixed on every mainstream Linux build

func snapshotOS(match string) ([]Sample, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	boot := bootTime()
	memTotal := memTotalBytes()
	pageSize := float64(os.Getpagesize())
	now := time.Now()

	var samples []Sample
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		cmdline := readCmdline(pid)
		if cmdline == "" || (match != "" && !strings.Contains(cmdline, match)) {
			continue
		}
		st, err := readStat(pid)
		if err != nil {
			// Process exited between ReadDir and here; skip silently.
			continue
		}

		started := boot.Add(time.Duration(st.startTicks) * time.Second / clockTicks)
		elapsed := now.Sub(started).Seconds()
		if elapsed < 1 {
			elapsed = 1
		}
		cpuSeconds := float64(st.utime+st.stime) / clockTicks

		var memPct float64
		if memTotal > 0 {
			memPct = float64(st.rssPages) * pageSize / memTotal * 100
		}

		samples = append(samples, Sample{
			PID:        pid,
			Command:    cmdline,
			CPUPercent: cpuSeconds / elapsed * 100,
			MemPercent: memPct,
		})
	}
	return samples, nil
}

// readCmdline returns the NUL-separated command line joined with spaces,
// or "" when the process is gone or kernel-owned.
func readCmdline(pid int) string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return ""
	}
	parts := bytes.Split(data, []byte{0})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) == 0 {
			continue
		}
		out = append(out, string(part))
	}
	return strings.Join(out, " ")
}

type procStat struct {
	utime      int64
	stime      int64
	startTicks int64
	rssPages   int64
}

// readStat parses /proc/<pid>/stat. The comm field may contain spaces and
// parens, so fields are counted from the last ')'.
func readStat(pid int) (procStat, error) {
	raw, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return procStat{}, err
	}
	s := string(raw)
	close := strings.LastIndex(s, ")")
	if close == -1 || close+2 > len(s) {
		return procStat{}, fmt.Errorf("malformed stat for pid %d", pid)
	}
	fields := strings.Fields(s[close+2:])
	// fields[0] is state (field 3 of stat); utime=14, stime=15,
	// starttime=22, rss=24 in stat numbering.
	if len(fields) < 22 {
		return procStat{}, fmt.Errorf("short stat for pid %d", pid)
	}
	var st procStat
	st.utime, _ = strconv.ParseInt(fields[11], 10, 64)
	st.stime, _ = strconv.ParseInt(fields[12], 10, 64)
	st.startTicks, _ = strconv.ParseInt(fields[19], 10, 64)
	st.rssPages, _ = strconv.ParseInt(fields[21], 10, 64)
	return st, nil
}

func bootTime() time.Time {
	f, err := os.Open("/proc/stat")
	if err != nil {
		return time.Now()
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "btime") {
			parts := strings.Fields(line)
			if len(parts) == 2 {
				sec, _ := strconv.ParseInt(parts[1], 10, 64)
				return time.Unix(sec, 0)
			}
		}
	}
	return time.Now()
}

func memTotalBytes() float64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "MemTotal:") {
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				kb, _ := strconv.ParseFloat(parts[1], 64)
				return kb * 1024
			}
		}
	}
	return 0
}
