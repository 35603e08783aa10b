package reach

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// Configuration errors. They are logged and the offending operation is
// skipped; none of them stops the frame loop.
var (
	ErrNoTarget       = errors.New("reach: missing target pose source")
	ErrNoBody         = errors.New("reach: missing physics body")
	ErrNoNode         = errors.New("reach: missing node")
	ErrNoHandFactory  = errors.New("reach: no hand prefab available")
	ErrUnknownPrefab  = errors.New("reach: unknown prefab")
	ErrNoSource       = errors.New("reach: interactor has no pose source")
	ErrNoManipulator  = errors.New("reach: constrained interactable has no manipulator")
	ErrUnknownButton  = errors.New("reach: unknown button")
	ErrUnknownFinger  = errors.New("reach: unknown finger")
	ErrHookPanic      = errors.New("reach: hook panicked")
	ErrSpawnFailed    = errors.New("reach: spawner produced no object")
	ErrInvalidConfig  = errors.New("reach: invalid config")
	ErrInvalidScript  = errors.New("reach: invalid script")
	ErrGrabNotAllowed = errors.New("reach: grab strategy not ready")
)

// logger is the package-wide structured logger. Like the debug flag it is a
// plain global: the runtime is single-threaded.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// globalDebug mirrors the most recently set World debug flag so that
// interactables (which may not know their World) can check it cheaply.
var globalDebug bool

// SetLogger replaces the package logger. Passing nil discards all output.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	logger = l
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return logger
}

// safeCall runs fn and converts a panic into an error wrapping ErrHookPanic.
func safeCall(op string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %w: %v", op, ErrHookPanic, r)
		}
	}()
	fn()
	return nil
}

// logSkip logs a configuration error for an operation that was skipped.
func logSkip(op string, err error, attrs ...any) {
	logger.Warn("skipped "+op, append([]any{slog.Any("err", err)}, attrs...)...)
}

// debugTransition logs a state change when debug mode is on.
func debugTransition(ib *Interactable, from, to InteractionState, i *Interactor) {
	if !globalDebug {
		return
	}
	attrs := []any{
		slog.String("interactable", ib.Name()),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	}
	if i != nil {
		attrs = append(attrs, slog.String("hand", i.Hand.String()))
	}
	logger.Debug("interaction state", attrs...)
}
