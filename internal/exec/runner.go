// Package exec provides a testable command execution abstraction.
// osascript, networksetup and open are all invoked through a Runner so they can be faked.
package exec

import (
	"bytes"
	"context"
	osexec "os/exec"
	"sync"
)

// Runner defines the interface for executing external commands.
type Runner interface {
	// Run executes and returns stdout and stderr separately.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

	// Start begins a command without waiting for completion.
	Start(ctx context.Context, name string, args ...string) error
}

// OSRunner implements Runner using os/exec.
type OSRunner struct {
	// Env overrides environment variables (nil = inherit from parent)
	Env []string
}

// NewOSRunner creates a new OS-based command runner.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run executes a command and returns stdout and stderr.
func (r *OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := osexec.CommandContext(ctx, name, args...)
	if r.Env != nil {
		cmd.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Start begins a command without waiting. The child is reaped in the background.
func (r *OSRunner) Start(ctx context.Context, name string, args ...string) error {
	cmd := osexec.CommandContext(ctx, name, args...)
	if r.Env != nil {
		cmd.Env = r.Env
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// MockRunner implements Runner for testing.
type MockRunner struct {
	mu    sync.Mutex
	Calls []MockCall

	// Handler produces the response for a call. nil returns empty output.
	Handler func(name string, args []string) MockResponse
}

// MockCall records a single command invocation.
type MockCall struct {
	Name string
	Args []string
}

// MockResponse defines the response for a mocked command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// NewMockRunner creates a mock runner answering every call with handler.
func NewMockRunner(handler func(name string, args []string) MockResponse) *MockRunner {
	return &MockRunner{Handler: handler}
}

func (m *MockRunner) record(name string, args []string) MockResponse {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Name: name, Args: args})
	m.mu.Unlock()
	if m.Handler == nil {
		return MockResponse{}
	}
	return m.Handler(name, args)
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	resp := m.record(name, args)
	return resp.Stdout, resp.Stderr, resp.Err
}

func (m *MockRunner) Start(ctx context.Context, name string, args ...string) error {
	return m.record(name, args).Err
}

// CallCount returns the number of recorded calls.
func (m *MockRunner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
