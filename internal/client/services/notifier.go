package services

import (
	"context"

	"github.com/dmitrijs2005/salesdesk/internal/logging"
)

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notifier shows transient messages to the user. Implementations must not
// block for long: they are called from request paths.
type Notifier interface {
	Notify(ctx context.Context, level Level, msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, level Level, msg string)

func (f NotifierFunc) Notify(ctx context.Context, level Level, msg string) {
	f(ctx, level, msg)
}

// LogNotifier writes notifications to a logger. Used when there is no
// interactive front-end.
type LogNotifier struct {
	Log logging.Logger
}

func (n LogNotifier) Notify(ctx context.Context, level Level, msg string) {
	if level == LevelError {
		n.Log.Error(ctx, msg)
		return
	}
	n.Log.Info(ctx, msg)
}
