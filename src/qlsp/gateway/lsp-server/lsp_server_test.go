package lspserver

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	qerrors "github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"github.com/uber/qchat-lsp/src/qlsp/internal/mock/jsonrpc2mock"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// respondWith returns a Call implementation that decodes result into the caller's destination.
func respondWith(result interface{}) func(ctx context.Context, method string, params, dest interface{}) (jsonrpc2.ID, error) {
	return func(ctx context.Context, method string, params, dest interface{}) (jsonrpc2.ID, error) {
		if dest != nil {
			data, err := json.Marshal(result)
			if err != nil {
				return jsonrpc2.NewNumberID(1), err
			}
			if err := json.Unmarshal(data, dest); err != nil {
				return jsonrpc2.NewNumberID(1), err
			}
		}
		return jsonrpc2.NewNumberID(1), nil
	}
}

func TestNotRunning(t *testing.T) {
	g := New(zap.NewNop().Sugar())
	ctx := context.Background()

	assert.False(t, g.Connected())

	_, err := g.SendChatPrompt(ctx, &entity.SendChatPromptParams{})
	var notRunning *qerrors.ServerNotRunningError
	require.ErrorAs(t, err, &notRunning)
	assert.Equal(t, MethodSendChatPrompt, notRunning.Method)

	assert.Error(t, g.Initialized(ctx))
	assert.Error(t, g.DeleteBearerToken(ctx))
}

func TestSetConn(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := New(zap.NewNop().Sugar())

	g.SetConn(jsonrpc2mock.NewMockConn(ctrl))
	assert.True(t, g.Connected())

	g.SetConn(nil)
	assert.False(t, g.Connected())
}

func TestLifecycleCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := jsonrpc2mock.NewMockConn(ctrl)
	g := New(zap.NewNop().Sugar())
	g.SetConn(conn)
	ctx := context.Background()

	conn.EXPECT().Call(gomock.Any(), protocol.MethodInitialize, gomock.Any(), gomock.Any()).DoAndReturn(
		respondWith(protocol.InitializeResult{ServerInfo: &protocol.ServerInfo{Name: "q"}}))
	result, err := g.Initialize(ctx, &protocol.InitializeParams{})
	require.NoError(t, err)
	assert.Equal(t, "q", result.ServerInfo.Name)

	conn.EXPECT().Notify(gomock.Any(), protocol.MethodInitialized, gomock.Any()).Return(nil)
	assert.NoError(t, g.Initialized(ctx))

	conn.EXPECT().Call(gomock.Any(), protocol.MethodShutdown, nil, nil).Return(jsonrpc2.NewNumberID(2), nil)
	assert.NoError(t, g.Shutdown(ctx))

	conn.EXPECT().Notify(gomock.Any(), protocol.MethodExit, nil).Return(errors.New("closed"))
	err = g.Exit(ctx)
	assert.ErrorContains(t, err, protocol.MethodExit)
}

func TestTokenCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := jsonrpc2mock.NewMockConn(ctrl)
	g := New(zap.NewNop().Sugar())
	g.SetConn(conn)
	ctx := context.Background()

	params := &entity.GetSsoTokenParams{
		ClientName: "Eclipse IDE",
		Source:     entity.SsoTokenSource{Kind: entity.SsoSourceBuilderID},
		Options:    entity.GetSsoTokenOptions{LoginOnInvalidToken: true},
	}
	conn.EXPECT().Call(gomock.Any(), MethodGetSsoToken, params, gomock.Any()).DoAndReturn(
		respondWith(entity.GetSsoTokenResult{SsoToken: entity.SsoToken{ID: "id-1", AccessToken: "secret"}}))
	token, err := g.GetSsoToken(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "id-1", token.SsoToken.ID)

	conn.EXPECT().Call(gomock.Any(), MethodUpdateBearerToken, &entity.UpdateCredentialsParams{Data: "jwe", Encrypted: true}, nil).
		Return(jsonrpc2.NewNumberID(3), nil)
	assert.NoError(t, g.UpdateBearerToken(ctx, "jwe"))

	conn.EXPECT().Call(gomock.Any(), MethodInvalidateSsoToken, &entity.InvalidateSsoTokenParams{SsoTokenID: "id-1"}, nil).
		Return(jsonrpc2.NewNumberID(4), nil)
	assert.NoError(t, g.InvalidateSsoToken(ctx, "id-1"))

	conn.EXPECT().Notify(gomock.Any(), MethodDeleteBearerToken, nil).Return(nil)
	assert.NoError(t, g.DeleteBearerToken(ctx))
}

func TestSendChatPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := jsonrpc2mock.NewMockConn(ctrl)
	g := New(zap.NewNop().Sugar())
	g.SetConn(conn)

	params := &entity.SendChatPromptParams{Message: "encrypted", PartialResultToken: "token-1"}
	conn.EXPECT().Call(gomock.Any(), MethodSendChatPrompt, params, gomock.Any()).DoAndReturn(respondWith("encrypted-result"))

	result, err := g.SendChatPrompt(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, `"encrypted-result"`, string(result))
}
