package core

import "context"

// Answerer turns a free-text question into zero or more answer strings.
type Answerer interface {
	Answer(ctx context.Context, question string) ([]string, error)
}

// Responder produces the bounded chunks to post back to a querent.
type Responder interface {
	Respond(ctx context.Context, querent, text string) (Reply, error)
}

type Reply struct {
	RequestID string
	Question  string
	Answers   []string
	Chunks    []string
}

// Command is an operator slash command such as /help.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, sessionID string, args []string) (string, error)
}
