// Package sendgrid provides a small Go client for the SendGrid v3 API,
// covering what a form or CMS integration needs: sending transactional
// email, reading account statistics and checking which permission scopes
// an API key grants.
//
// Basic usage:
//
//	client, err := sendgrid.New("your-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Check the key may send mail
//	client.LoadScopes(ctx)
//	if !client.HasScope("mail.send") {
//	    log.Fatal("API key cannot send mail")
//	}
//
//	msg := sendgrid.NewMessage(
//	    sendgrid.Address{Name: "Forms", Email: "forms@example.com"},
//	    "New entry",
//	    sendgrid.Address{Email: "owner@example.com"},
//	).AddContent(sendgrid.ContentTypeHTML, "<p>Hello</p>")
//
//	resp, err := client.SendEmail(ctx, msg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Message ID:", resp.MessageID)
//
// # Errors
//
// Failures before a response is received are [*TransportError]. A response
// whose JSON body carries "error" or "errors" is a [*ProviderError], whatever
// its HTTP status, and a body that is not JSON is a [*DecodeError]. Use
// errors.Is with [ErrTransport], [ErrProvider], [ErrDecode] or
// [ErrUnauthorized] to branch on them. Nothing is retried; retry policy is
// left to the caller.
//
// [Client.LoadScopes] is the exception: it never returns an error. Failures
// are reported to the configured [ErrorLogger] and the previously loaded
// scopes are kept.
package sendgrid
