//go:build !linux

package procsnap

import "os/exec"

// snapshotOS falls back to parsing `ps aux` where procfs is unavailable.
func snapshotOS(match string) ([]Sample, error) {
	out, err := exec.Command("ps", "aux").Output()
	if err != nil {
		return nil, err
	}
	return parsePSOutput(string(out), match), nil
}
