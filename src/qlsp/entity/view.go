package entity

// ServerState is the liveness of the language server process.
type ServerState string

const (
	ServerStatePending ServerState = "PENDING"
	ServerStateRunning ServerState = "RUNNING"
	ServerStateFailed  ServerState = "FAILED"
)

// BrowserState reports whether the IDE can host the chat webview.
type BrowserState struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// ChatAssetState reports whether the chat UI bundle exists in the resolved client directory.
type ChatAssetState struct {
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
}

// ActiveView is the single panel the IDE should display.
type ActiveView string

const (
	DependencyMissingView ActiveView = "DEPENDENCY_MISSING_VIEW"
	LspStartupFailedView  ActiveView = "LSP_STARTUP_FAILED_VIEW"
	LspInitializingView   ActiveView = "LSP_INITIALIZING_VIEW"
	ChatAssetMissingView  ActiveView = "CHAT_ASSET_MISSING_VIEW"
	ToolkitLoginView      ActiveView = "TOOLKIT_LOGIN_VIEW"
	ReAuthenticateView    ActiveView = "RE_AUTHENTICATE_VIEW"
	ChatView              ActiveView = "CHAT_VIEW"
)

// ViewParams carries the active view to the IDE.
type ViewParams struct {
	View ActiveView `json:"view"`
}
