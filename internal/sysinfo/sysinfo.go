// Package sysinfo reports the machine facts written into each capture's footer.
package sysinfo

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/hpungsan/capture/internal/exec"
)

// wifiPrefix precedes the network name in networksetup output.
const wifiPrefix = "Current Wi-Fi Network:"

// DefaultInterface is the Wi-Fi interface on most Macs.
const DefaultInterface = "en0"

// Source reads machine facts. Unknown values are returned as empty strings.
type Source interface {
	WiFiSSID(ctx context.Context) string
	Hostname() string
}

// System reads facts from the running machine.
type System struct {
	Runner    exec.Runner
	Interface string
	// HostnameFunc defaults to os.Hostname.
	HostnameFunc func() (string, error)
}

// NewSystem creates a System reading the default Wi-Fi interface.
func NewSystem(runner exec.Runner) *System {
	return &System{Runner: runner, Interface: DefaultInterface, HostnameFunc: os.Hostname}
}

// WiFiSSID returns the current network name, or "" when not associated or not on macOS.
func (s *System) WiFiSSID(ctx context.Context) string {
	stdout, _, err := s.Runner.Run(ctx, "networksetup", "-getairportnetwork", s.Interface)
	if err != nil {
		slog.DebugContext(ctx, "wifi lookup failed", "interface", s.Interface, "error", err)
		return ""
	}
	return ParseSSID(string(stdout))
}

// Hostname returns the computer name as the OS reports it, or "" when it cannot be read.
func (s *System) Hostname() string {
	fn := s.HostnameFunc
	if fn == nil {
		fn = os.Hostname
	}
	name, err := fn()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

// ParseSSID extracts the network name from networksetup output.
func ParseSSID(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), wifiPrefix); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// Static is a fixed Source, for tests and for callers that already know the answers.
type Static struct {
	SSID string
	Host string
}

func (s Static) WiFiSSID(context.Context) string { return s.SSID }
func (s Static) Hostname() string                { return s.Host }
