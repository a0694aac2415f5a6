package mapper

import (
	stderr "errors"

	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"go.lsp.dev/jsonrpc2"
)

// ToJSONRPCError translates service domain errors into JSON-RPC errors with a meaningful code.
func ToJSONRPCError(e error) error {
	if e == nil {
		return nil
	}

	var rpcErr *jsonrpc2.Error
	if stderr.As(e, &rpcErr) {
		return jsonrpc2.NewError(rpcErr.Code, e.Error())
	}

	if errors.IsBadRequest(e) {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, e.Error())
	}

	if errors.IsNoSession(e) {
		return jsonrpc2.NewError(jsonrpc2.InvalidRequest, e.Error())
	}

	var notRunning *errors.ServerNotRunningError
	if stderr.As(e, &notRunning) {
		return jsonrpc2.NewError(jsonrpc2.ServerNotInitialized, e.Error())
	}

	return jsonrpc2.NewError(jsonrpc2.InternalError, e.Error())
}
