package conecta

import "context"

// Fixed sender and brand addresses. These are operational constants, not
// configuration: every outbound email carries the same from line, and
// broadcasts are addressed to the shared mailbox with the real recipients
// on the bcc list.
const (
	EmailFromName    = "Connect Palestine"
	EmailFromAddress = "conectados@connectpalestine.org"
	// EmailBroadcastTo is the primary recipient of broadcast sends so
	// subscribers never see each other's addresses.
	EmailBroadcastTo = "info@connectpalestine.org"
)

// Notice is a single-recipient templated email.
type Notice struct {
	To      string
	Subject string
	// Title is rendered verbatim as the heading of the body.
	Title string
	// Message is split on newlines; each line becomes its own paragraph.
	Message string
}

// Broadcast is a templated email delivered to many recipients at once.
// The recipients go on the bcc list; the primary "to" address is the
// fixed EmailBroadcastTo mailbox.
type Broadcast struct {
	Subject string
	Title   string
	Message string
	Bcc     []string
}

// Mailer defines operations for sending emails.
//
// Title and Message are inserted into the HTML body verbatim, without
// escaping. Callers must trust or sanitize the content they pass in.
type Mailer interface {
	// SendWelcome sends the fixed welcome email to a newly registered
	// subscriber, personalized with their name.
	SendWelcome(ctx context.Context, to, name string) error

	// SendNotice sends a single templated email to one recipient.
	SendNotice(ctx context.Context, n Notice) error

	// SendBroadcast sends one templated email with the recipients on bcc.
	SendBroadcast(ctx context.Context, b Broadcast) error
}

// EmailConfig holds configuration for mailer implementations.
type EmailConfig struct {
	// Provider is the mailer implementation ("mock" or "postmark").
	Provider string

	// PostmarkServerToken authenticates against the Postmark API.
	PostmarkServerToken string

	// AssetBaseURL is the base URL for image assets embedded in email
	// bodies (the brand logo).
	AssetBaseURL string
}
