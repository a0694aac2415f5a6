package lsplifecycle

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/internal/logfilewriter"
	"github.com/uber/qchat-lsp/src/qlsp/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _clientName = "qlsp"

// serverProcess is a running language server. It is the io.ReadWriteCloser behind the JSON-RPC stream.
type serverProcess struct {
	stdin  io.WriteCloser
	stdout io.ReadCloser
	wait   func() error
	kill   func() error

	conn      jsonrpc2.Conn
	startedAt time.Time
	exited    chan struct{}
	exitErr   error
}

func (p *serverProcess) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

func (p *serverProcess) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

func (p *serverProcess) Close() error {
	return multierr.Append(p.stdin.Close(), p.stdout.Close())
}

// watch records the exit of the process once its output stream has ended.
func (p *serverProcess) watch() {
	<-p.conn.Done()
	p.exitErr = p.wait()
	close(p.exited)
}

// launchProcess starts the server binary with its stdio piped to the daemon and its stderr captured.
func (c *controller) launchProcess(command string, args []string, env []string) (*serverProcess, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = filepath.Dir(command)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("opening stdout: %w", err)
	}
	cmd.Stderr = c.outputWriter()

	if err := c.executor.Start(cmd, env); err != nil {
		return nil, fmt.Errorf("starting %q: %w", command, err)
	}

	return &serverProcess{
		stdin:  stdin,
		stdout: stdout,
		wait:   cmd.Wait,
		kill: func() error {
			if err := cmd.Process.Kill(); err != nil && err != os.ErrProcessDone {
				return err
			}
			return nil
		},
	}, nil
}

// outputWriter returns the writer for the server's stderr, creating its log file on first use.
func (c *controller) outputWriter() io.Writer {
	c.outputMu.Lock()
	defer c.outputMu.Unlock()

	if c.output == nil {
		output, err := logfilewriter.SetupOutputWriter(c.outputWriterParams, _logFileKey)
		if err != nil {
			c.logger.Warnw("setting up language server log file, stderr is discarded", zap.Error(err))
			return io.Discard
		}
		c.output = output
	}
	return c.output
}

func (c *controller) outputTail() []string {
	c.outputMu.Lock()
	defer c.outputMu.Unlock()

	if c.output == nil {
		return nil
	}
	return c.output.Tail()
}

// startServer launches a process, performs the key handshake and the LSP initialization, then
// publishes RUNNING. On failure the process is killed and nil is returned.
func (c *controller) startServer(ctx context.Context, install *entity.LspInstallResult) (*serverProcess, error) {
	if c.stopping.Load() {
		return nil, fmt.Errorf("starting language server: controller is stopped")
	}

	command, args := mapper.InstallResultToCommand(install)
	proc, err := c.launch(command, args, c.environment())
	if err != nil {
		return nil, fmt.Errorf("launching language server: %w", err)
	}
	proc.startedAt = c.clock.Now()
	proc.exited = make(chan struct{})

	// The key must be the first line the server reads, before any protocol message.
	if err := c.channel.SendHandshake(proc.stdin); err != nil {
		err = multierr.Append(fmt.Errorf("sending handshake: %w", err), proc.kill())
		proc.Close()
		proc.wait()
		return nil, err
	}

	proc.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(proc))
	proc.conn.Go(context.Background(), c.handleServerMessage)
	go proc.watch()
	c.current.Store(proc)
	// Stop may have run after the check above and found no process to shut down.
	if c.stopping.Load() {
		return nil, c.abandon(proc, fmt.Errorf("starting language server: controller is stopped"))
	}
	c.server.SetConn(proc.conn)

	if err := c.initializeServer(ctx); err != nil {
		return nil, c.abandon(proc, err)
	}

	c.stats.Counter("launch").Inc(1)
	c.publishServerState(entity.ServerStateRunning)
	return proc, nil
}

// abandon disconnects and kills a process that did not reach RUNNING, and waits for it to exit.
func (c *controller) abandon(proc *serverProcess, cause error) error {
	c.server.SetConn(nil)
	c.current.CompareAndSwap(proc, nil)
	err := multierr.Append(cause, proc.kill())
	proc.conn.Close()
	<-proc.exited
	return err
}

func (c *controller) initializeServer(ctx context.Context) error {
	initCtx, cancel := context.WithTimeout(ctx, c.initializeTimeout)
	defer cancel()

	result, err := c.server.Initialize(initCtx, c.initializeParams())
	if err != nil {
		return fmt.Errorf("initializing language server: %w", err)
	}
	if result != nil && result.ServerInfo != nil {
		c.logger.Infow("language server initialized", "name", result.ServerInfo.Name, "version", result.ServerInfo.Version)
	}

	if err := c.server.Initialized(initCtx); err != nil {
		return fmt.Errorf("notifying language server initialized: %w", err)
	}
	return nil
}

func (c *controller) initializeParams() *protocol.InitializeParams {
	return &protocol.InitializeParams{
		ProcessID: int32(os.Getpid()),
		ClientInfo: &protocol.ClientInfo{
			Name: _clientName,
		},
		RootURI: protocol.DocumentURI(uri.File(c.request.DestinationDir)),
		InitializationOptions: map[string]interface{}{
			"aws": map[string]interface{}{
				"clientInfo": map[string]interface{}{
					"name":      _clientName,
					"extension": map[string]string{"name": _clientName},
				},
			},
		},
		Capabilities: protocol.ClientCapabilities{
			Window: &protocol.WindowClientCapabilities{
				WorkDoneProgress: true,
			},
		},
	}
}

// handleServerMessage dispatches server initiated messages. It runs on the connection's read loop,
// so messages are handled in arrival order.
func (c *controller) handleServerMessage(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if h := c.serverHandler.Load(); h != nil {
		return (*h)(ctx, reply, req)
	}
	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}
