// Package confirm gates destructive actions behind a yes/no prompt. One
// Gateway interface, two presentation strategies: an interactive terminal
// prompt and a context-carried answer supplied by the presentation layer.
// Which one runs is decided once at startup by capability detection, never
// by branching at call sites.
package confirm

import "context"

// Gateway asks the user to confirm a destructive action. A dismissed prompt
// and a cancelled context both resolve to false; neither is an error. A
// pending confirmation whose caller goes away must resolve quietly, not leak.
type Gateway interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Fixed is a Gateway with a predetermined answer.
type Fixed bool

func (f Fixed) Confirm(context.Context, string, string) (bool, error) {
	return bool(f), nil
}

type answerKey struct{}

// WithAnswer stores a confirmation answer on the context for the Context
// gateway to find.
func WithAnswer(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, answerKey{}, confirmed)
}

// Context resolves confirmations from an answer the presentation layer
// placed on the request context: the overlay was already shown client-side
// and its outcome travels with the call. An absent answer counts as a
// dismissal.
type Context struct{}

func (Context) Confirm(ctx context.Context, _, _ string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, nil
	default:
	}
	confirmed, ok := ctx.Value(answerKey{}).(bool)
	if !ok {
		return false, nil
	}
	return confirmed, nil
}
