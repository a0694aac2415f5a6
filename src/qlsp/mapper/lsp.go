package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// RequestToInitializeParams maps the parameters from a jsonrpc2.Request into protocol.InitializeParams.
func RequestToInitializeParams(req jsonrpc2.Request) (*protocol.InitializeParams, error) {
	params := protocol.InitializeParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToInitializedParams maps the parameters from a jsonrpc2.Request into protocol.InitializedParams.
func RequestToInitializedParams(req jsonrpc2.Request) (*protocol.InitializedParams, error) {
	params := protocol.InitializedParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToLoginRequest maps the parameters of a login request.
func RequestToLoginRequest(req jsonrpc2.Request) (*entity.LoginRequest, error) {
	params := entity.LoginRequest{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToChatPrompt maps the parameters of a chat prompt request.
func RequestToChatPrompt(req jsonrpc2.Request) (*entity.ChatPrompt, error) {
	params := entity.ChatPrompt{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToTabClosed maps the parameters of a tab closed notification.
func RequestToTabClosed(req jsonrpc2.Request) (*entity.TabClosed, error) {
	params := entity.TabClosed{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToBrowserState maps the parameters of a browser compatibility notification.
func RequestToBrowserState(req jsonrpc2.Request) (*entity.BrowserState, error) {
	params := entity.BrowserState{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToProgressParams maps the parameters of a $/progress notification.
func RequestToProgressParams(req jsonrpc2.Request) (*entity.PartialResult, error) {
	params := entity.PartialResult{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToLogMessageParams maps the parameters of a window/logMessage notification.
func RequestToLogMessageParams(req jsonrpc2.Request) (*protocol.LogMessageParams, error) {
	params := protocol.LogMessageParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToShowMessageParams maps the parameters of a window/showMessage notification.
func RequestToShowMessageParams(req jsonrpc2.Request) (*protocol.ShowMessageParams, error) {
	params := protocol.ShowMessageParams{}
	if err := unmarshalParams(req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

// Requests without params, such as notifications sent with "params" omitted, map to the zero value.
func unmarshalParams(req jsonrpc2.Request, v interface{}) error {
	raw := req.Params()
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return wrapErrParse(err)
	}
	return nil
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%w: %w", jsonrpc2.ErrParse, err)
}
