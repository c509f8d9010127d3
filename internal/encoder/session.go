package encoder

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"

	"github.com/inkwell-anim/inkwell/internal/logging"
)

// state tracks a session through its lifecycle:
// idle → spawning → writable → closing → closed.
type state int

const (
	stateIdle state = iota
	stateSpawning
	stateWritable
	stateClosing
	stateClosed
)

// session wraps one child encoder process and its output part. A terminated
// session is immutable; at most one session is writable at a time.
type session struct {
	part   int
	path   string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	frames int
	bytes  int64
	st     state
}

func spawn(cmd *exec.Cmd, part int, path string) (*session, error) {
	s := &session{part: part, path: path, cmd: cmd, st: stateSpawning}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening encoder pipe for part %d: %w", part, err)
	}
	s.stdin = stdin
	if cmd.Stderr == nil {
		cmd.Stderr = &s.stderr
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawning encoder for part %d: %w", part, err)
	}
	s.st = stateWritable
	logging.Logger().Info("encoder session started", "part", part, "path", path)
	return s, nil
}

// write sends one frame down the child's input pipe. A full pipe blocks the
// caller; that is the backpressure contract. A failed write means the child
// died, so the session is reaped and the failure surfaced as a ProcessError.
func (s *session) write(data []byte) error {
	if s.st != stateWritable {
		return &ProcessError{Part: s.part, Err: fmt.Errorf("session not writable")}
	}
	n, err := s.stdin.Write(data)
	if err != nil {
		s.st = stateClosing
		s.stdin.Close()
		waitErr := s.cmd.Wait()
		s.st = stateClosed
		if waitErr != nil {
			err = fmt.Errorf("%w (process: %v, stderr: %s)", err, waitErr, tail(s.stderr.Bytes()))
		}
		return &ProcessError{Part: s.part, Err: err}
	}
	s.frames++
	s.bytes += int64(n)
	return nil
}

// close flushes the pipe and waits for the child to exit. A non-zero exit is
// a ProcessError naming this part; parts closed earlier are unaffected.
func (s *session) close() error {
	if s.st == stateClosed {
		return nil
	}
	s.st = stateClosing
	s.stdin.Close()
	err := s.cmd.Wait()
	s.st = stateClosed
	if stderr := tail(s.stderr.Bytes()); stderr != "" {
		logging.Logger().Debug("encoder stderr", "part", s.part, "output", stderr)
	}
	if err != nil {
		return &ProcessError{Part: s.part, Err: fmt.Errorf("%w (stderr: %s)", err, tail(s.stderr.Bytes()))}
	}
	logging.Logger().Info("encoder session closed", "part", s.part, "frames", s.frames, "bytes", s.bytes)
	return nil
}
