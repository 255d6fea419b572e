// Package ptyhost hosts a child shell process on a pseudo-terminal and
// exposes the single-threaded, non-blocking read/write contract the
// engine's frame loop drives: ReadAvailable drains whatever the child
// has written without blocking, Write makes a best-effort attempt and
// queues whatever could not be written immediately, Tick services
// that queue, and Alive reaps the child non-blockingly.
package ptyhost

import (
	"errors"
	"os"
	"os/exec"
	"os/user"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// Host owns a PTY master file descriptor and the child process behind
// it. It is driven entirely from one goroutine: there is no internal
// reader goroutine, matching the engine's single-threaded frame loop.
type Host struct {
	master *os.File
	cmd    *exec.Cmd
	pid    int

	pending []byte
}

// Options configures the shell a Host launches.
type Options struct {
	// Shell overrides the login shell; empty uses $SHELL, falling back
	// to /bin/bash.
	Shell string
	Cols  uint16
	Rows  uint16
	// AdditionalEnv is appended to the child's environment, overriding
	// any name it shares with the inherited environment.
	AdditionalEnv map[string]string
}

// shellPath resolves the shell to launch per spec: the SHELL
// environment variable, or /bin/bash, falling back to a probed common
// shell if neither exists on disk.
func shellPath(opts Options) string {
	if opts.Shell != "" {
		return opts.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		if _, err := os.Stat(sh); err == nil {
			return sh
		}
	}
	if _, err := os.Stat("/bin/bash"); err == nil {
		return "/bin/bash"
	}
	return findShell()
}

// New forks a login shell under a new PTY and returns a Host owning
// the master side. Construction failures (PTY allocation, fork/exec)
// are fatal to the caller, per the engine's init-failure contract.
func New(opts Options) (*Host, error) {
	shell := shellPath(opts)
	cmd := exec.Command(shell, "-l")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	for k, v := range opts.AdditionalEnv {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	if u, err := user.Current(); err == nil {
		cmd.Dir = u.HomeDir
	}

	cols, rows := opts.Cols, opts.Rows
	if cols == 0 {
		cols = 80
	}
	if rows == 0 {
		rows = 24
	}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: cols, Rows: rows})
	if err != nil {
		return nil, err
	}

	if err := unix.SetNonblock(int(master.Fd()), true); err != nil {
		master.Close()
		return nil, err
	}

	return &Host{
		master: master,
		cmd:    cmd,
		pid:    cmd.Process.Pid,
	}, nil
}

// ReadAvailable drains whatever bytes the child has already written,
// without blocking. It reports eof=true when the PTY has been closed
// out from under the child.
func (h *Host) ReadAvailable() (data []byte, eof bool) {
	buf := make([]byte, 4096)
	var out []byte
	for {
		n, err := h.master.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err == nil {
			if n == 0 {
				return out, false
			}
			continue
		}
		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
			return out, false
		}
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		// Any other error (including EOF once the child exits and
		// closes its end) ends the session.
		return out, true
	}
}

// Write attempts to write data to the child without blocking. Bytes
// that could not be written immediately are appended to the pending
// buffer and retried on the next Tick. Errors other than
// EAGAIN/EWOULDBLOCK/EINTR are dropped silently, matching the
// steady-state error-handling contract: only construction failures are
// fatal.
func (h *Host) Write(data []byte) {
	if len(h.pending) > 0 {
		h.pending = append(h.pending, data...)
		return
	}
	h.writeNow(data)
}

func (h *Host) writeNow(data []byte) {
	offset := 0
	for offset < len(data) {
		n, err := h.master.Write(data[offset:])
		offset += n
		if err == nil {
			continue
		}
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) {
			h.pending = append(h.pending, data[offset:]...)
			return
		}
		// other errors: drop the remainder silently
		return
	}
}

// Tick services the pending-write buffer and should be called once per
// frame before rendering.
func (h *Host) Tick() {
	if len(h.pending) == 0 {
		return
	}
	pending := h.pending
	h.pending = nil
	h.writeNow(pending)
}

// SetSize reports a new terminal size to the kernel.
func (h *Host) SetSize(cols, rows uint16) error {
	return pty.Setsize(h.master, &pty.Winsize{Cols: cols, Rows: rows})
}

// Alive performs a non-blocking reap of the child and reports whether
// it is still running.
func (h *Host) Alive() bool {
	if h.pid == 0 {
		return false
	}
	var status syscall.WaitStatus
	pid, err := syscall.Wait4(h.pid, &status, syscall.WNOHANG, nil)
	if err != nil {
		// ECHILD means it was already reaped elsewhere
		return !errors.Is(err, syscall.ECHILD)
	}
	if pid == h.pid {
		h.pid = 0
		return false
	}
	return true
}

// Shutdown closes the PTY master and, if the child is still alive,
// sends SIGHUP and blocks for it to exit.
func (h *Host) Shutdown() {
	h.master.Close()
	if h.pid == 0 {
		return
	}
	syscall.Kill(h.pid, syscall.SIGHUP)
	var status syscall.WaitStatus
	syscall.Wait4(h.pid, &status, 0, nil)
}

// findShell probes common shell locations, used when neither Options
// nor $SHELL name a usable one and /bin/bash does not exist.
func findShell() string {
	candidates := []string{"/bin/bash", "/usr/bin/bash", "/bin/zsh", "/usr/bin/zsh", "/bin/sh"}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return "/bin/sh"
}
