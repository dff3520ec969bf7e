// Package supervisor owns the lifecycle of the server process under test:
// launching it, detecting when it is accepting connections, and guaranteeing
// it is terminated afterward no matter how the test run ends.
//
// The server is a black box. The only readiness signal is the network itself,
// so WaitReady polls an HTTP GET against the server's root path until it
// answers 200 or a deadline lapses. There is no stdout parsing and no lock
// file.
package supervisor

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/alessio/shellescape"

	"github.com/dusty-web/server-contract-tests/framework"
)

const (
	DefaultStartupTimeout = time.Second * 10
	DefaultShutdownGrace  = time.Second * 5
	DefaultPollInterval   = time.Millisecond * 100

	probeTimeout = time.Second
)

// ErrBinaryNotFound means the server binary does not exist on disk. The
// harness treats this as "skip the whole run" rather than a test failure,
// since there is nothing to validate if the server was never built.
var ErrBinaryNotFound = errors.New("server binary not found")

// StartupTimeoutError means the server process was launched but never
// answered the readiness probe within the configured timeout. The process
// has already been force-killed by the time this error is returned.
type StartupTimeoutError struct {
	Timeout time.Duration
}

func (e StartupTimeoutError) Error() string {
	return fmt.Sprintf("server did not become ready within %s", e.Timeout)
}

// Options configures a Supervisor. Zero values for the timing fields are
// replaced with the defaults above.
type Options struct {
	BinaryPath     string
	Host           string
	Port           int
	StartupTimeout time.Duration
	ShutdownGrace  time.Duration
	PollInterval   time.Duration

	// Logger receives lifecycle debug output. Defaults to a null logger.
	Logger framework.Logger

	// StartupOutput receives the readiness progress dots. Defaults to discard.
	StartupOutput io.Writer
}

// Supervisor is the exclusive owner of the server process handle. No other
// component may signal or wait on the process; everything else talks to the
// server only over the network.
type Supervisor struct {
	opts   Options
	state  State
	cmd    *exec.Cmd
	exited chan error
	logger framework.Logger
}

func New(opts Options) *Supervisor {
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}
	if opts.StartupTimeout == 0 {
		opts.StartupTimeout = DefaultStartupTimeout
	}
	if opts.ShutdownGrace == 0 {
		opts.ShutdownGrace = DefaultShutdownGrace
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = framework.NullLogger()
	}
	if opts.StartupOutput == nil {
		opts.StartupOutput = ioutil.Discard
	}
	return &Supervisor{opts: opts, state: NotStarted, logger: opts.Logger}
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	return s.state
}

// BaseURL returns the root URL the server is expected to listen on.
func (s *Supervisor) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", s.opts.Host, s.opts.Port)
}

func (s *Supervisor) transition(to State) {
	if !canTransition(s.state, to) {
		// transitions are driven only by this package; a bad one is a bug here
		panic(fmt.Sprintf("invalid supervisor state transition %s -> %s", s.state, to))
	}
	s.logger.Printf("Supervisor state: %s -> %s", s.state, to)
	s.state = to
}

// Launch spawns the server process. If the binary does not exist on disk it
// returns ErrBinaryNotFound without attempting a spawn, and the supervisor
// stays in NotStarted.
func (s *Supervisor) Launch() error {
	if s.state != NotStarted {
		return fmt.Errorf("Launch called in state %s", s.state)
	}
	if _, err := os.Stat(s.opts.BinaryPath); err != nil {
		return fmt.Errorf("%w at %s (build the server first)", ErrBinaryNotFound, s.opts.BinaryPath)
	}

	cmd := exec.Command(s.opts.BinaryPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not spawn server process: %w", err)
	}
	s.cmd = cmd
	s.exited = make(chan error, 1)
	go func() {
		s.exited <- cmd.Wait()
	}()

	s.logger.Printf("Launched %s (pid %d)", shellescape.Quote(s.opts.BinaryPath), cmd.Process.Pid)
	s.transition(Starting)
	return nil
}

// WaitReady blocks until the server answers the readiness probe with a 200,
// or the startup timeout lapses. Connection-refused and other I/O errors
// during polling are expected while the server is still binding its listener;
// they are swallowed and the probe retries until the deadline. On timeout the
// process is force-killed before returning, so a failed run never leaks it.
func (s *Supervisor) WaitReady() error {
	if s.state != Starting {
		return fmt.Errorf("WaitReady called in state %s", s.state)
	}

	url := s.BaseURL() + "/"
	fmt.Fprintf(s.opts.StartupOutput, "Waiting for server at %s", url)
	client := &http.Client{Timeout: probeTimeout}
	deadline := time.Now().Add(s.opts.StartupTimeout)
	for {
		fmt.Fprintf(s.opts.StartupOutput, ".")
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				fmt.Fprintln(s.opts.StartupOutput)
				s.transition(Ready)
				return nil
			}
			s.logger.Printf("Readiness probe got status %d, still waiting", resp.StatusCode)
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(s.opts.StartupOutput)
			s.transition(FailedToStart)
			s.forceKill()
			return StartupTimeoutError{Timeout: s.opts.StartupTimeout}
		}
		time.Sleep(s.opts.PollInterval)
	}
}

// Shutdown terminates the server process, gracefully if it cooperates. It
// sends SIGTERM, waits up to the shutdown grace period for the process to
// exit on its own, then kills it outright. It is idempotent and safe to call
// at any point, including before a successful Launch.
func (s *Supervisor) Shutdown() {
	switch s.state {
	case NotStarted, Stopped, FailedToStart:
		// nothing running (FailedToStart already force-killed the process)
		return
	case Starting:
		// never became ready, so there is no point in a graceful request
		s.forceKill()
		s.transition(Stopped)
		return
	}

	s.transition(Terminating)
	_ = s.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-s.exited:
		s.logger.Printf("Server exited on its own after SIGTERM")
	case <-time.After(s.opts.ShutdownGrace):
		s.logger.Printf("Server ignored SIGTERM for %s; killing pid %d", s.opts.ShutdownGrace, s.cmd.Process.Pid)
		_ = s.cmd.Process.Kill()
		<-s.exited
	}
	s.transition(Stopped)
}

// Alive reports whether the launched process is still running. Used to verify
// the termination postconditions.
func (s *Supervisor) Alive() bool {
	if s.cmd == nil || s.cmd.Process == nil {
		return false
	}
	return s.cmd.Process.Signal(syscall.Signal(0)) == nil
}

func (s *Supervisor) forceKill() {
	if s.cmd == nil || s.cmd.Process == nil {
		return
	}
	_ = s.cmd.Process.Kill()
	<-s.exited // reap so the pid is not left as a zombie
}
