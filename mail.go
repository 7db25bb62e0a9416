package sendgrid

import (
	"encoding/json"
	"fmt"
)

// Content types for message bodies. SendGrid requires text/plain to come
// before text/html when both are present.
const (
	ContentTypeText = "text/plain"
	ContentTypeHTML = "text/html"
)

// Address is a sender or recipient.
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// String formats the address as "Name <email>", or just the email when
// there is no name.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Personalization is one envelope of a message: its recipients and the
// per-recipient overrides.
type Personalization struct {
	To            []Address         `json:"to"`
	CC            []Address         `json:"cc,omitempty"`
	BCC           []Address         `json:"bcc,omitempty"`
	Subject       string            `json:"subject,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"`
	Substitutions map[string]string `json:"substitutions,omitempty"`
	CustomArgs    map[string]string `json:"custom_args,omitempty"`
	SendAt        int64             `json:"send_at,omitempty"`
}

// Content is one body part of a message.
type Content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Attachment is a file attached to a message. Content is base64 encoded.
type Attachment struct {
	Content     string `json:"content"`
	Type        string `json:"type,omitempty"`
	Filename    string `json:"filename"`
	Disposition string `json:"disposition,omitempty"`
	ContentID   string `json:"content_id,omitempty"`
}

// Message is the mail/send payload.
type Message struct {
	Personalizations []Personalization `json:"personalizations"`
	From             Address           `json:"from"`
	ReplyTo          *Address          `json:"reply_to,omitempty"`
	Subject          string            `json:"subject,omitempty"`
	Content          []Content         `json:"content,omitempty"`
	Attachments      []Attachment      `json:"attachments,omitempty"`
	TemplateID       string            `json:"template_id,omitempty"`
	Headers          map[string]string `json:"headers,omitempty"`
	Categories       []string          `json:"categories,omitempty"`
	CustomArgs       map[string]string `json:"custom_args,omitempty"`
	SendAt           int64             `json:"send_at,omitempty"`
}

// NewMessage creates a message with a single personalization addressed
// to the given recipients.
func NewMessage(from Address, subject string, to ...Address) *Message {
	return &Message{
		Personalizations: []Personalization{{To: to, Subject: subject}},
		From:             from,
	}
}

// AddContent appends a body part and returns the message.
func (m *Message) AddContent(contentType, value string) *Message {
	m.Content = append(m.Content, Content{Type: contentType, Value: value})
	return m
}

// Validate reports every problem that SendGrid would reject the message for
// before any request is made.
func (m *Message) Validate() error {
	if m == nil {
		return &ValidationError{Errors: []error{ErrNoRecipient, ErrNoSender, ErrNoContent}}
	}

	var errs []error

	hasRecipient := false
	missingSubject := false
	for _, p := range m.Personalizations {
		if len(p.To) > 0 {
			hasRecipient = true
		}
		if p.Subject == "" && m.Subject == "" && m.TemplateID == "" {
			missingSubject = true
		}
	}
	if !hasRecipient {
		errs = append(errs, ErrNoRecipient)
	}
	if m.From.Email == "" {
		errs = append(errs, ErrNoSender)
	}
	if missingSubject {
		errs = append(errs, ErrNoSubject)
	}
	if len(m.Content) == 0 && m.TemplateID == "" {
		errs = append(errs, ErrNoContent)
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// SendResponse is the result of an accepted send.
type SendResponse struct {
	// StatusCode is 202 when SendGrid queued the message.
	StatusCode int
	// MessageID is the X-Message-Id response header.
	MessageID string
	// Body is the decoded response body, usually null.
	Body json.RawMessage
}
