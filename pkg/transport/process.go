package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shaban/rackless/internal/logx"
	"github.com/shaban/rackless/pkg/chain"
)

// ProcessConfig names the HOST executable and its default timeout.
type ProcessConfig struct {
	ExecutablePath string
	Args           []string
	RequestTimeout time.Duration
}

// DefaultProcessConfig mirrors the teacher's audiohost controller defaults:
// a same-directory executable and a 5s request timeout (§5).
func DefaultProcessConfig() ProcessConfig {
	return ProcessConfig{
		ExecutablePath: "./plugin-host",
		RequestTimeout: 5 * time.Second,
	}
}

// ProcessTransport drives a HOST subprocess over stdin/stdout, the way
// pkg/audiohost/controller.go drove the audio-host binary: a writer for
// requests, a bufio.Scanner reader goroutine demultiplexing responses from
// events, and a watcher goroutine for unexpected exit.
type ProcessTransport struct {
	cfg ProcessConfig
	log *logx.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
	stderr *bufio.Scanner

	mu       sync.Mutex
	pending  map[int64]chan wireResponse
	nextID   int64
	running  atomic.Bool
	events   chan Event
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewProcessTransport constructs a transport that has not yet been
// started; call Start to spawn the subprocess.
func NewProcessTransport(cfg ProcessConfig, log *logx.Logger) *ProcessTransport {
	return &ProcessTransport{
		cfg:     cfg,
		log:     log,
		pending: make(map[int64]chan wireResponse),
		events:  make(chan Event, 64),
	}
}

func (t *ProcessTransport) Events() <-chan Event { return t.events }

// Start launches the HOST process and begins reading its stdout.
func (t *ProcessTransport) Start(ctx context.Context) error {
	t.ctx, t.cancel = context.WithCancel(ctx)

	cmd := exec.CommandContext(t.ctx, t.cfg.ExecutablePath, t.cfg.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("transport: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("transport: stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("transport: stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("transport: start HOST process: %w", err)
	}

	t.cmd = cmd
	t.stdin = stdin
	t.stdout = bufio.NewScanner(stdout)
	t.stderr = bufio.NewScanner(stderr)
	t.running.Store(true)

	t.log.Info("▶ HOST process started pid=%d path=%s", cmd.Process.Pid, t.cfg.ExecutablePath)

	go t.readStdout()
	go t.readStderr()
	go t.watchProcess()

	return nil
}

func (t *ProcessTransport) readStdout() {
	for t.stdout.Scan() {
		line := t.stdout.Bytes()
		if len(line) == 0 {
			continue
		}

		var env envelope
		if err := json.Unmarshal(line, &env); err != nil {
			t.log.Warning("transport: malformed line from HOST: %s", string(line))
			continue
		}

		if env.ID != 0 {
			var resp wireResponse
			if err := json.Unmarshal(line, &resp); err != nil {
				t.log.Warning("transport: malformed response from HOST: %s", string(line))
				continue
			}
			t.deliverResponse(resp)
			continue
		}

		var ev wireEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			t.log.Warning("transport: malformed event from HOST: %s", string(line))
			continue
		}
		kind, ok := eventKindFromType(ev.Type)
		if !ok {
			t.log.Warning("transport: unknown event type from HOST: %s", ev.Type)
			continue
		}
		t.events <- Event{
			Kind: kind, Label: ev.Label, URI: ev.URI,
			AudioIn: ev.AudioIn, AudioOut: ev.AudioOut, MIDIIn: ev.MIDIIn, MIDIOut: ev.MIDIOut,
			Controls: controlsFromWire(ev.Controls),
			Src: ev.Src, Dst: ev.Dst, Symbol: ev.Symbol, Value: ev.Value, Bypassed: ev.Bypassed,
			HardwareInputs: ev.Inputs, HardwareOutputs: ev.Outputs,
		}
	}
}

func (t *ProcessTransport) readStderr() {
	for t.stderr.Scan() {
		t.log.Debug("HOST stderr: %s", t.stderr.Text())
	}
}

func (t *ProcessTransport) watchProcess() {
	err := t.cmd.Wait()
	t.running.Store(false)
	close(t.events)
	if err != nil && t.ctx.Err() == nil {
		t.log.Error("✖ HOST process exited unexpectedly: %v", err)
	}
}

func (t *ProcessTransport) deliverResponse(resp wireResponse) {
	t.mu.Lock()
	ch, ok := t.pending[resp.ID]
	if ok {
		delete(t.pending, resp.ID)
	}
	t.mu.Unlock()
	if ok {
		ch <- resp
	}
}

func (t *ProcessTransport) send(ctx context.Context, req wireRequest) (wireResponse, error) {
	if !t.running.Load() {
		return wireResponse{}, ErrNotRunning
	}

	t.mu.Lock()
	t.nextID++
	req.ID = t.nextID
	ch := make(chan wireResponse, 1)
	t.pending[req.ID] = ch
	t.mu.Unlock()

	data, err := json.Marshal(req)
	if err != nil {
		return wireResponse{}, fmt.Errorf("transport: marshal request: %w", err)
	}
	data = append(data, '\n')

	if _, err := t.stdin.Write(data); err != nil {
		return wireResponse{}, fmt.Errorf("transport: write request: %w", err)
	}

	timeout := t.cfg.RequestTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	select {
	case resp := <-ch:
		if !resp.OK {
			return resp, fmt.Errorf("%w: %s", ErrHostRejected, resp.Error)
		}
		return resp, nil
	case <-time.After(timeout):
		t.mu.Lock()
		delete(t.pending, req.ID)
		t.mu.Unlock()
		return wireResponse{}, ErrTimeout
	case <-ctx.Done():
		return wireResponse{}, ctx.Err()
	}
}

func (t *ProcessTransport) AddPlugin(ctx context.Context, uri string) (string, chain.HostPorts, error) {
	resp, err := t.send(ctx, wireRequest{Op: "add_plugin", URI: uri})
	if err != nil {
		return "", chain.HostPorts{}, err
	}
	ports := chain.HostPorts{
		AudioInputs:  resp.AudioIn,
		AudioOutputs: resp.AudioOut,
		MIDIInputs:   resp.MIDIIn,
		MIDIOutputs:  resp.MIDIOut,
		Controls:     controlsFromWire(resp.Controls),
	}
	return resp.Label, ports, nil
}

func (t *ProcessTransport) RemovePlugin(ctx context.Context, label string) error {
	_, err := t.send(ctx, wireRequest{Op: "remove_plugin", Label: label})
	return err
}

func (t *ProcessTransport) Connect(ctx context.Context, src, dst string) error {
	_, err := t.send(ctx, wireRequest{Op: "connect", Src: src, Dst: dst})
	return err
}

func (t *ProcessTransport) Disconnect(ctx context.Context, src, dst string) error {
	_, err := t.send(ctx, wireRequest{Op: "disconnect", Src: src, Dst: dst})
	return err
}

func (t *ProcessTransport) SetParam(ctx context.Context, label, symbol string, value float64) error {
	_, err := t.send(ctx, wireRequest{Op: "set_param", Label: label, Symbol: symbol, Value: value})
	return err
}

func (t *ProcessTransport) SetBypass(ctx context.Context, label string, bypassed bool) error {
	_, err := t.send(ctx, wireRequest{Op: "set_bypass", Label: label, Bypassed: bypassed})
	return err
}

func (t *ProcessTransport) ListHardwarePorts(ctx context.Context) ([]string, []string, error) {
	resp, err := t.send(ctx, wireRequest{Op: "list_hardware_ports"})
	if err != nil {
		return nil, nil, err
	}
	return resp.Inputs, resp.Outputs, nil
}

// Stop sends no explicit quit command (the wire protocol has none); it
// cancels the context, which tears the process down via CommandContext,
// then waits briefly before the watcher goroutine's close(t.events) runs.
func (t *ProcessTransport) Stop() error {
	if t.cancel != nil {
		t.cancel()
	}
	if t.cmd != nil && t.cmd.Process != nil {
		done := make(chan struct{})
		go func() {
			t.cmd.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.log.Warning("transport: HOST process did not exit in time, killing pid=%d", t.cmd.Process.Pid)
			t.cmd.Process.Kill()
		}
	}
	return nil
}

