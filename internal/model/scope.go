package model

// Scope identifies the caller of a usecase.
type Scope struct {
	UserID   string
	Username string
	Source   string // "http", "telegram", "cli"
}

// Sources.
const (
	SourceHTTP     = "http"
	SourceTelegram = "telegram"
	SourceCLI      = "cli"
)
