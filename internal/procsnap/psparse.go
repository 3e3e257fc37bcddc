package procsnap

import (
	"bufio"
	"strconv"
	"strings"
)

// parsePSOutput extracts samples from `ps aux` style output. Lines that do
// not look like process rows (header, truncated rows) are skipped.
func parsePSOutput(out, match string) []Sample {
	var samples []Sample
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		fields := strings.Fields(line)
		// USER PID %CPU %MEM VSZ RSS TTY STAT START TIME COMMAND...
		if len(fields) < 11 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		cpu, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			continue
		}
		mem, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			continue
		}
		command := strings.Join(fields[10:], " ")
		if match != "" && !strings.Contains(command, match) {
			continue
		}
		samples = append(samples, Sample{
			PID:        pid,
			Command:    command,
			CPUPercent: cpu,
			MemPercent: mem,
		})
	}
	return samples
}
