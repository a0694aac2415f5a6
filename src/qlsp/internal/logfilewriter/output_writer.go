package logfilewriter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/uber/qchat-lsp/src/qlsp/internal/fs"
	"github.com/uber/qchat-lsp/src/qlsp/internal/serverinfofile"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	_fmtOutputKey = "output:%s"
	_tailLines    = 20
)

// Params define the dependencies for SetupOutputWriter.
type Params struct {
	FS             fs.QlspFS
	Lifecycle      fx.Lifecycle
	ServerInfoFile serverinfofile.ServerInfoFile
}

// OutputWriter receives raw process output, writes it line by line to a dedicated log file and
// remembers the most recent lines.
type OutputWriter interface {
	Write(p []byte) (n int, err error)
	// Tail returns the most recently written non-empty lines, oldest first.
	Tail() []string
}

// SetupOutputWriter creates a writer for output that should be kept apart from the daemon log,
// such as the stderr of a child process. The file path is published in the server info file so
// that the IDE can tail it.
func SetupOutputWriter(p Params, name string) (OutputWriter, error) {
	logsDirPath := filepath.Join(os.TempDir(), name)
	if err := p.FS.MkdirAll(logsDirPath); err != nil {
		return nil, err
	}

	logFile, err := p.FS.TempFile(logsDirPath, "")
	if err != nil {
		return nil, err
	}

	if err := p.ServerInfoFile.UpdateField(fmt.Sprintf(_fmtOutputKey, name), logFile.Name()); err != nil {
		logFile.Close()
		return nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(logFile),
		zap.InfoLevel,
	)
	fileLogger := zap.New(core).Sugar()

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			fileLogger.Sync()
			logFile.Close()
			return p.FS.Remove(logFile.Name())
		},
	})

	return newLoggerWriter(fileLogger), nil
}

type loggerWriter struct {
	logger *zap.SugaredLogger

	mu   sync.Mutex
	tail []string
}

func newLoggerWriter(logger *zap.SugaredLogger) *loggerWriter {
	return &loggerWriter{logger: logger}
}

// Write implements io.Writer. Each non-empty line is logged individually.
func (o *loggerWriter) Write(p []byte) (n int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, line := range strings.Split(string(p), "\n") {
		if len(line) == 0 {
			continue
		}
		o.logger.Info(line)
		o.tail = append(o.tail, line)
		if len(o.tail) > _tailLines {
			o.tail = o.tail[len(o.tail)-_tailLines:]
		}
	}

	return len(p), nil
}

func (o *loggerWriter) Tail() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.tail...)
}
