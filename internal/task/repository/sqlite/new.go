package sqlite

import (
	"database/sql"

	"task-intake-assistant/internal/task/repository"
	"task-intake-assistant/pkg/log"
)

const LogPrefix = "task.repository.sqlite"

type implRepository struct {
	l  log.Logger
	db *sql.DB
}

// New creates a task repository on an opened database.
func New(l log.Logger, db *sql.DB) repository.Repository {
	return &implRepository{l: l, db: db}
}
