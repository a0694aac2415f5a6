package mapper

import (
	"path/filepath"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
)

// Flags passed to the language server entry point.
var _serverFlags = []string{"--nolazy", "--inspect=5599", "--stdio", "--set-credentials-encryption-key"}

// Keys written to the server info file for a resolved installation.
const (
	ServerInfoKeyVersion   = "server-version"
	ServerInfoKeyLocation  = "server-location"
	ServerInfoKeyDirectory = "server-directory"
)

// InstallResultToCommand returns the executable and arguments that launch the language server.
func InstallResultToCommand(r *entity.LspInstallResult) (string, []string) {
	args := append([]string{filepath.Join(r.ServerDirectory, r.ServerCommandArgs)}, _serverFlags...)
	return filepath.Join(r.ServerDirectory, r.ServerCommand), args
}

// InstallResultToServerInfo returns the server info file fields describing an installation.
func InstallResultToServerInfo(r *entity.LspInstallResult) map[string]string {
	return map[string]string{
		ServerInfoKeyVersion:   r.Version,
		ServerInfoKeyLocation:  string(r.Location),
		ServerInfoKeyDirectory: r.ServerDirectory,
	}
}
