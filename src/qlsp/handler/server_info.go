package handler

import (
	"fmt"
	"os"
	"strconv"

	"github.com/uber/qchat-lsp/src/qlsp/internal/serverinfofile"
	"go.uber.org/config"
)

const (
	_errInvalidEntry = "type error or missing field for key %q"

	_infoKeyPID         = "pid"
	_infoKeyServiceName = "service-name"

	_configKeyServiceName = "service.name"
)

// Output process details so that IDEs can tell which daemon wrote the Server Info file.
// Other components (e.g. JSON-RPC, lsp-lifecycle) independently add their fields to the file.
func outputServiceInfo(cfg config.Provider, infofile serverinfofile.ServerInfoFile) error {
	var name string
	if err := cfg.Get(_configKeyServiceName).Populate(&name); err != nil || name == "" {
		return fmt.Errorf(_errInvalidEntry, _configKeyServiceName)
	}

	if err := infofile.UpdateField(_infoKeyServiceName, name); err != nil {
		return fmt.Errorf("outputting %q to info file: %w", _infoKeyServiceName, err)
	}
	if err := infofile.UpdateField(_infoKeyPID, strconv.Itoa(os.Getpid())); err != nil {
		return fmt.Errorf("outputting %q to info file: %w", _infoKeyPID, err)
	}

	return nil
}
