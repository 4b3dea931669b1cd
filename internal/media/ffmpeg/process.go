package ffmpeg

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

const stderrTail = 4096

// Binaries names the executables and output codec.
type Binaries struct {
	FFmpeg     string
	FFprobe    string
	VideoCodec string
}

func (b Binaries) ffmpeg() string {
	if s := strings.TrimSpace(b.FFmpeg); s != "" {
		return s
	}
	return "ffmpeg"
}

func (b Binaries) ffprobe() string {
	if s := strings.TrimSpace(b.FFprobe); s != "" {
		return s
	}
	return "ffprobe"
}

func (b Binaries) videoCodec() string {
	if s := strings.TrimSpace(b.VideoCodec); s != "" {
		return s
	}
	return "mjpeg"
}

// tailBuffer keeps the last stderrTail bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - stderrTail; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(bytes.TrimSpace(t.buf))
}

// process is a running ffmpeg command whose stderr is drained in the
// background.
type process struct {
	cmd    *exec.Cmd
	stderr *tailBuffer
	done   chan struct{}
}

func startProcess(cmd *exec.Cmd) (*process, error) {
	pipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	p := &process{cmd: cmd, stderr: &tailBuffer{}, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		_, _ = io.Copy(p.stderr, pipe)
	}()
	return p, nil
}

// wait reaps the process and folds stderr into any failure.
func (p *process) wait() error {
	<-p.done
	if err := p.cmd.Wait(); err != nil {
		if tail := p.stderr.String(); tail != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, tail)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

func (p *process) kill() {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}
