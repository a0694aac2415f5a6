package eventbus

import (
	"github.com/uber/qchat-lsp/src/qlsp/entity"
)

// Topics shared by the controllers.
var (
	AuthStateTopic      = NewTopic[entity.AuthState]("auth-state")
	ServerStateTopic    = NewTopic[entity.ServerState]("server-state")
	BrowserStateTopic   = NewTopic[entity.BrowserState]("browser-state")
	ChatAssetStateTopic = NewTopic[entity.ChatAssetState]("chat-asset-state")
	ActiveViewTopic     = NewTopic[entity.ActiveView]("active-view")
)
