package listener

import (
	"bytes"
	"io"
)

// lineEndings translates between the network's line endings and the bare
// newlines farmer sessions read and write. Telnet clients send CR LF or
// CR NUL, ssh clients without a pty may send a lone CR, and a pair can be
// split across reads.
type lineEndings struct {
	rw     io.ReadWriter
	lastCR bool
}

func newLineEndings(rw io.ReadWriter) io.ReadWriter {
	return &lineEndings{rw: rw}
}

func (l *lineEndings) Read(p []byte) (int, error) {
	for {
		n, err := l.rw.Read(p)
		out := p[:0]
		for _, b := range p[:n] {
			if b == '\r' {
				out = append(out, '\n')
				l.lastCR = true
				continue
			}
			if !l.lastCR || (b != '\n' && b != 0) {
				out = append(out, b)
			}
			l.lastCR = false
		}

		// A read holding only the tail of a CR pair yields nothing; read on.
		if len(out) > 0 || n == 0 || err != nil {
			return len(out), err
		}
	}
}

// Write sends p with every bare LF expanded to CR LF. It reports len(p)
// written on success.
func (l *lineEndings) Write(p []byte) (int, error) {
	var buf bytes.Buffer
	buf.Grow(len(p) + bytes.Count(p, []byte{'\n'}))
	for i, b := range p {
		if b == '\n' && (i == 0 || p[i-1] != '\r') {
			buf.WriteByte('\r')
		}
		buf.WriteByte(b)
	}

	if _, err := l.rw.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}
