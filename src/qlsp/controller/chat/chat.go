// Package chat routes chat prompts to the language server and its partial results back to the IDE tab
// that asked for them.
package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/controller/correlator"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	ideclient "github.com/uber/qchat-lsp/src/qlsp/gateway/ide-client"
	lspserver "github.com/uber/qchat-lsp/src/qlsp/gateway/lsp-server"
	"github.com/uber/qchat-lsp/src/qlsp/internal/encryption"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"github.com/uber/qchat-lsp/src/qlsp/mapper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "chat"

// Controller runs the chat request flow between IDE tabs and the language server.
type Controller interface {
	// SendPrompt sends a prompt for the tab on the session in ctx and returns the final result.
	SendPrompt(ctx context.Context, prompt *entity.ChatPrompt) (*entity.ChatResult, error)
	// OnProgress forwards a partial result to the tab that started the request. Unknown tokens are ignored.
	OnProgress(ctx context.Context, params *entity.PartialResult) error
	// TabClosed drops the pending requests of a closed tab on the session in ctx.
	TabClosed(ctx context.Context, params *entity.TabClosed) error
	// EndSession drops every pending request of a session.
	EndSession(ctx context.Context, sessionUUID uuid.UUID) error
}

// Params are inbound parameters to initialize a new Controller.
type Params struct {
	fx.In

	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Correlator correlator.Controller
	Channel    encryption.Channel
	Server     lspserver.Gateway
	IdeGateway ideclient.Gateway
}

type controller struct {
	logger     *zap.SugaredLogger
	stats      tally.Scope
	correlator correlator.Controller
	channel    encryption.Channel
	server     lspserver.Gateway
	ideGateway ideclient.Gateway
}

// New creates a new chat controller.
func New(p Params) Controller {
	return &controller{
		logger:     p.Logger.With("plugin", _nameKey),
		stats:      p.Stats.SubScope("chat"),
		correlator: p.Correlator,
		channel:    p.Channel,
		server:     p.Server,
		ideGateway: p.IdeGateway,
	}
}

func (c *controller) SendPrompt(ctx context.Context, prompt *entity.ChatPrompt) (*entity.ChatResult, error) {
	sessionUUID, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return nil, err
	}
	if prompt.TabID == "" {
		return nil, errors.MissingTabIDError
	}

	token := c.correlator.Register(entity.PendingRequest{SessionUUID: sessionUUID, TabID: prompt.TabID})
	defer c.correlator.Release(token)
	c.stats.Counter("requests").Inc(1)

	message, err := c.channel.Encrypt(prompt.Payload)
	if err != nil {
		return nil, fmt.Errorf("encrypting prompt: %w", err)
	}

	raw, err := c.server.SendChatPrompt(ctx, &entity.SendChatPromptParams{
		Message:            message,
		PartialResultToken: token,
	})
	if err != nil {
		c.stats.Counter("failures").Inc(1)
		return nil, err
	}

	result, err := c.decode(raw)
	if err != nil {
		c.stats.Counter("failures").Inc(1)
		return nil, fmt.Errorf("reading chat result: %w", err)
	}
	return &entity.ChatResult{TabID: prompt.TabID, Result: result}, nil
}

func (c *controller) OnProgress(ctx context.Context, params *entity.PartialResult) error {
	token := params.Token.String()
	req, ok := c.correlator.Resolve(token)
	if !ok {
		c.logger.Debugw("ignoring progress for unknown token", "token", token)
		return nil
	}

	value, err := c.decode(params.Value)
	if err != nil {
		return fmt.Errorf("reading partial result: %w", err)
	}

	c.stats.Counter("partial_results").Inc(1)
	return c.ideGateway.NotifySession(ctx, req.SessionUUID, ideclient.MethodChatProgress, entity.ChatProgress{
		TabID: req.TabID,
		Value: value,
	})
}

func (c *controller) TabClosed(ctx context.Context, params *entity.TabClosed) error {
	sessionUUID, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}
	if params.TabID == "" {
		return errors.MissingTabIDError
	}

	if n := c.correlator.ReleaseTab(sessionUUID, params.TabID); n > 0 {
		c.logger.Debugw("released pending requests of closed tab", "tabId", params.TabID, "count", n)
	}
	return nil
}

func (c *controller) EndSession(ctx context.Context, sessionUUID uuid.UUID) error {
	if n := c.correlator.ReleaseSession(sessionUUID); n > 0 {
		c.logger.Debugw("released pending requests of ended session", "session", sessionUUID, "count", n)
	}
	return nil
}

// decode returns the plaintext of a server payload. JSON strings are encrypted tokens, anything else
// is passed through.
func (c *controller) decode(raw json.RawMessage) (json.RawMessage, error) {
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return raw, nil
	}

	value, err := c.channel.Decrypt(token)
	if err != nil {
		if errors.IsExpired(err) {
			c.logger.Warnw("discarding expired payload", zap.Error(err))
		} else {
			c.logger.Errorw("discarding payload that failed to decrypt", zap.Error(err))
		}
		return nil, err
	}
	return value, nil
}
