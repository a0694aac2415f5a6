package qlspdaemon

import (
	"context"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"github.com/uber/qchat-lsp/src/qlsp/mapper"
	"go.lsp.dev/jsonrpc2"
)

// Login starts a login with the provider named in the request.
func (r *jsonRPCRouter) Login(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToLoginRequest(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.qlspdaemon.Login(ctx, params)
	return r.replyAuth(ctx, reply, result, err)
}

func (r *jsonRPCRouter) Logout(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.qlspdaemon.Logout(ctx)
	return r.replyAuth(ctx, reply, result, err)
}

func (r *jsonRPCRouter) ReAuthenticate(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.qlspdaemon.ReAuthenticate(ctx)
	return r.replyAuth(ctx, reply, result, err)
}

// replyAuth answers a failed auth operation with the unchanged state and the failure message.
// Only malformed requests are answered with an error.
func (r *jsonRPCRouter) replyAuth(ctx context.Context, reply jsonrpc2.Replier, result *entity.AuthResult, err error) error {
	if err != nil && (result == nil || errors.IsBadRequest(err)) {
		return reply(ctx, nil, err)
	}
	return reply(ctx, result, nil)
}

func (r *jsonRPCRouter) AuthState(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.qlspdaemon.AuthState(ctx)
	return reply(ctx, result, err)
}

// SendPrompt replies once the language server returns the final result of the prompt.
func (r *jsonRPCRouter) SendPrompt(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToChatPrompt(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.qlspdaemon.SendPrompt(ctx, params)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) TabClosed(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToTabClosed(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.qlspdaemon.TabClosed(ctx, params)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) CurrentView(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.qlspdaemon.CurrentView(ctx)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) BrowserCompatibility(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToBrowserState(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.qlspdaemon.BrowserCompatibility(ctx, params)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) InstallInfo(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.qlspdaemon.InstallInfo(ctx)
	return reply(ctx, result, err)
}
