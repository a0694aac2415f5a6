package lsplifecycle

import (
	"context"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"go.uber.org/zap"
)

// supervise relaunches the server after an unexpected exit. Relaunches back off exponentially and
// the budget is restored once a process stays up for the reset window. The installation is reused.
func (c *controller) supervise(install *entity.LspInstallResult, proc *serverProcess) {
	defer c.wg.Done()

	restarts := 0
	backoff := c.initialBackoff
	for {
		<-proc.exited
		c.server.SetConn(nil)
		c.current.CompareAndSwap(proc, nil)
		if c.stopping.Load() {
			return
		}

		c.logger.Warnw("language server exited unexpectedly",
			zap.Error(proc.exitErr),
			"stderr", c.outputTail(),
		)
		if c.clock.Now().Sub(proc.startedAt) >= c.resetWindow {
			restarts = 0
			backoff = c.initialBackoff
		}

		proc = nil
		for proc == nil {
			if restarts >= c.maxRestarts {
				c.logger.Errorw("giving up on the language server", "restarts", restarts)
				c.stats.Counter("give_up").Inc(1)
				c.starting.Store(false)
				c.publishServerState(entity.ServerStateFailed)
				return
			}
			restarts++
			c.stats.Counter("restart").Inc(1)
			c.publishServerState(entity.ServerStatePending)

			select {
			case <-c.clock.After(backoff):
			case <-c.stopped:
				return
			}
			if backoff *= 2; backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}

			var err error
			if proc, err = c.startServer(context.Background(), install); err != nil {
				c.logger.Errorw("relaunching language server", "attempt", restarts, zap.Error(err))
				if c.stopping.Load() {
					return
				}
			}
		}
	}
}
