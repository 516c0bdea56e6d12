package mailprobe

import "errors"

var (
	// ErrInvalidSMTPOptions is returned when WithSMTP is given a
	// MailFrom that is not a plain local@domain address.
	ErrInvalidSMTPOptions = errors.New("mailprobe: SMTPOptions.MailFrom must be a plain email address")

	// ErrInvalidWorkers is returned when WithWorkers is given a value
	// below 1.
	ErrInvalidWorkers = errors.New("mailprobe: Workers must be at least 1")
)
