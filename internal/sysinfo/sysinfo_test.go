package sysinfo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/capture/internal/exec"
)

func TestParseSSID(t *testing.T) {
	require.Equal(t, "HomeNet", ParseSSID("Current Wi-Fi Network: HomeNet\n"))
	require.Equal(t, "Cafe Guest 5G", ParseSSID("Current Wi-Fi Network:  Cafe Guest 5G \n"))
	require.Empty(t, ParseSSID("You are not associated with an AirPort network.\n"))
	require.Empty(t, ParseSSID(""))
}

func TestWiFiSSID(t *testing.T) {
	runner := exec.NewMockRunner(func(name string, args []string) exec.MockResponse {
		return exec.MockResponse{Stdout: []byte("Current Wi-Fi Network: Office\n")}
	})
	s := NewSystem(runner)

	require.Equal(t, "Office", s.WiFiSSID(context.Background()))
	require.Equal(t, 1, runner.CallCount())
	require.Equal(t, "networksetup", runner.Calls[0].Name)
	require.Equal(t, []string{"-getairportnetwork", "en0"}, runner.Calls[0].Args)
}

func TestWiFiSSID_CommandFails(t *testing.T) {
	runner := exec.NewMockRunner(func(string, []string) exec.MockResponse {
		return exec.MockResponse{Err: errors.New("executable file not found")}
	})
	require.Empty(t, NewSystem(runner).WiFiSSID(context.Background()))
}

func TestHostname(t *testing.T) {
	s := NewSystem(exec.NewMockRunner(nil))

	s.HostnameFunc = func() (string, error) { return "studio.local", nil }
	require.Equal(t, "studio.local", s.Hostname())

	s.HostnameFunc = func() (string, error) { return "studio\n", nil }
	require.Equal(t, "studio", s.Hostname())

	s.HostnameFunc = func() (string, error) { return "", errors.New("boom") }
	require.Empty(t, s.Hostname())
}
