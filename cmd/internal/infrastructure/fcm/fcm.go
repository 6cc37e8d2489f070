package fcm

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"safesound/cmd/internal/service"
)

type FCMClient struct {
	messaging *messaging.Client
}

// NewFCMClient authenticates against Firebase using the application
// default credentials (GOOGLE_APPLICATION_CREDENTIALS in dev).
func NewFCMClient(ctx context.Context) (*FCMClient, error) {
	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		return nil, err
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}

	return &FCMClient{messaging: client}, nil
}

func (f *FCMClient) Send(ctx context.Context, token string, msg *service.PushMessage) error {
	badge := 1
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: &badge,
				},
			},
		},
	}

	_, err := f.messaging.Send(ctx, message)
	return err
}
