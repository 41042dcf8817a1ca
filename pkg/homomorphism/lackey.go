package homomorphism

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Lackey is an external decision procedure consulted for every assignment
// the search is about to accept. Check blocks until the procedure answers
// accept (true) or reject (false); a rejection is handled exactly like a
// propagation failure. A non-nil error is a protocol failure and is fatal
// to the run, since the external procedure is required for soundness once
// configured.
//
// The engine only ever sees this interface; the wire framing lives in the
// implementation and can be swapped without touching the search.
type Lackey interface {
	// Check submits the current assignment (assignment[p] = target vertex,
	// or -1 while p is unassigned) and blocks for the verdict.
	Check(assignment []int) (bool, error)
	Close() error
}

// PipeLackey talks to an external procedure over two independent byte
// streams, typically named pipes. Framing is line-oriented text:
//
//	request:  "check <k> <p1> <t1> ... <pk> <tk>\n"
//	response: one line whose first token is "true" or "false"
//
// where k is the number of assigned pattern vertices and each pair is the
// pattern and target vertex display names. Responses may carry extra
// tokens after the verdict; they are ignored.
//
// Reads are made cancellable by pumping the response stream through a
// goroutine and selecting against the shared Timeout, so an unresponsive
// procedure cannot stall a worker past the deadline.
type PipeLackey struct {
	pattern *Bigraph
	target  *Bigraph
	timeout *Timeout

	mu   sync.Mutex
	send *bufio.Writer
	out  io.Closer
	in   io.Closer

	lines   chan string
	readErr error
}

// NewPipeLackey opens the two named pipes and starts the response pump.
// Opening blocks until the external procedure opens its own ends.
func NewPipeLackey(sendPath, recvPath string, pattern, target *Bigraph, timeout *Timeout) (*PipeLackey, error) {
	out, err := os.OpenFile(sendPath, os.O_WRONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "opening lackey send pipe %q", sendPath)
	}
	in, err := os.OpenFile(recvPath, os.O_RDONLY, 0)
	if err != nil {
		out.Close()
		return nil, errors.Wrapf(err, "opening lackey receive pipe %q", recvPath)
	}
	return newPipeLackey(out, in, pattern, target, timeout), nil
}

// newPipeLackey wires a lackey over arbitrary streams; tests use in-memory
// pipes here.
func newPipeLackey(w io.WriteCloser, r io.ReadCloser, pattern, target *Bigraph, timeout *Timeout) *PipeLackey {
	l := &PipeLackey{
		pattern: pattern,
		target:  target,
		timeout: timeout,
		send:    bufio.NewWriter(w),
		out:     w,
		in:      r,
		lines:   make(chan string),
	}
	go l.pump(r)
	return l
}

func (l *PipeLackey) pump(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l.lines <- sc.Text()
	}
	if err := sc.Err(); err != nil {
		l.readErr = err
	} else {
		l.readErr = io.EOF
	}
	close(l.lines)
}

// Check implements Lackey. Callers are serialized; the lock is the
// channel handle itself and no other lock is held across the round-trip.
func (l *PipeLackey) Check(assignment []int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var req strings.Builder
	k := 0
	for _, t := range assignment {
		if t >= 0 {
			k++
		}
	}
	fmt.Fprintf(&req, "check %d", k)
	for p, t := range assignment {
		if t >= 0 {
			fmt.Fprintf(&req, " %s %s", l.pattern.Name(p), l.target.Name(t))
		}
	}
	req.WriteByte('\n')

	if _, err := l.send.WriteString(req.String()); err != nil {
		return false, errors.Wrap(err, "writing to lackey")
	}
	if err := l.send.Flush(); err != nil {
		return false, errors.Wrap(err, "writing to lackey")
	}

	var done <-chan struct{}
	if l.timeout != nil {
		done = l.timeout.Done()
	}
	select {
	case line, ok := <-l.lines:
		if !ok {
			return false, errors.Wrap(l.readErr, "lackey response stream closed")
		}
		switch verdict := strings.Fields(line); {
		case len(verdict) > 0 && verdict[0] == "true":
			return true, nil
		case len(verdict) > 0 && verdict[0] == "false":
			return false, nil
		default:
			return false, errors.Errorf("malformed lackey response %q", line)
		}
	case <-done:
		return false, errors.New("lackey query cancelled")
	}
}

// Close releases both stream endpoints.
func (l *PipeLackey) Close() error {
	err := l.out.Close()
	if cerr := l.in.Close(); err == nil {
		err = cerr
	}
	return err
}
