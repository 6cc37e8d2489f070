package service

import "context"

// PushMessage is the payload handed to the push delivery channel. Data is
// forwarded verbatim for client-side rendering.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushSender delivers a notification to a single device token.
type PushSender interface {
	Send(ctx context.Context, token string, msg *PushMessage) error
}

type EmailMessage struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// EmailSender delivers a batch of independent emails. A returned error
// means the whole batch is considered failed.
type EmailSender interface {
	SendBatch(ctx context.Context, msgs []*EmailMessage) error
}
