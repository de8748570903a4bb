// Package email provides the outbound mail sink: a provider-agnostic
// interface for sending a single transactional email, with a Postmark
// implementation for production and a disk-backed sender for development.
//
// There is deliberately no retry or queuing; a failed send surfaces as an
// error to the dispatching request and nothing is persisted on the sink side.
//
// # Usage
//
//	cfg := email.Config{
//	    PostmarkServerToken:  "your-server-token",
//	    PostmarkAccountToken: "your-account-token",
//	    SenderEmail:          "noreply@example.com",
//	    SupportEmail:         "support@example.com",
//	}
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    // handle configuration error
//	}
//
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "user@example.com",
//	    Subject:  "New login to your account",
//	    BodyHTML: body,
//	    Tag:      "new_login",
//	})
//
// Development mode writes emails locally instead:
//
//	sender := email.NewDevSender("./tmp/emails")
//
// # Error handling
//
// Sentinel errors support errors.Is checks:
//   - ErrInvalidConfig: configuration validation failed
//   - ErrInvalidParams: email parameter validation failed
//   - ErrFailedToSendEmail: delivery failed
package email
