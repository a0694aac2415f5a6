package qlspdaemon

import (
	"context"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/internal/eventbus"
)

// Login starts a login with the given provider.
func (c *controller) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResult, error) {
	return c.auth.Login(ctx, req)
}

// Logout ends the current login.
func (c *controller) Logout(ctx context.Context) (*entity.AuthResult, error) {
	return c.auth.Logout(ctx)
}

// ReAuthenticate refreshes an expired login.
func (c *controller) ReAuthenticate(ctx context.Context) (*entity.AuthResult, error) {
	return c.auth.ReAuthenticate(ctx)
}

func (c *controller) AuthState(ctx context.Context) (*entity.AuthState, error) {
	state := c.auth.State()
	return &state, nil
}

func (c *controller) SendPrompt(ctx context.Context, prompt *entity.ChatPrompt) (*entity.ChatResult, error) {
	return c.chat.SendPrompt(ctx, prompt)
}

func (c *controller) TabClosed(ctx context.Context, params *entity.TabClosed) error {
	return c.chat.TabClosed(ctx, params)
}

func (c *controller) CurrentView(ctx context.Context) (*entity.ViewParams, error) {
	return &entity.ViewParams{View: c.views.Current()}, nil
}

// BrowserCompatibility records whether the IDE can host the chat webview and returns the resulting view.
func (c *controller) BrowserCompatibility(ctx context.Context, state *entity.BrowserState) (*entity.ViewParams, error) {
	eventbus.Publish(c.bus, eventbus.BrowserStateTopic, *state)
	return c.CurrentView(ctx)
}

func (c *controller) InstallInfo(ctx context.Context) (*entity.LspInstallResult, error) {
	return c.server.GetInstallation(ctx)
}
