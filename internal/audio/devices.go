package audio

import (
	"fmt"
	"os/exec"
	"strings"
)

// CaptureDevices returns the PCM names arecord can capture from.
func CaptureDevices() ([]string, error) {
	return listDevices("arecord")
}

// PlaybackDevices returns the PCM names aplay can play to.
func PlaybackDevices() ([]string, error) {
	return listDevices("aplay")
}

func listDevices(tool string) ([]string, error) {
	cmd := exec.Command(tool, "-L")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s devices: %w", tool, err)
	}
	return parseDeviceList(string(output)), nil
}

// parseDeviceList keeps the top-level PCM names from `-L` output;
// indented lines are human-readable descriptions.
func parseDeviceList(output string) []string {
	var devices []string
	for _, line := range strings.Split(output, "\n") {
		if line == "" || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			continue
		}
		devices = append(devices, strings.TrimSpace(line))
	}
	return devices
}
