package mail

import "github.com/rs/zerolog"

// Mailer delivers the two account emails. Actual transport is an external
// collaborator; the default implementation writes the message to the log,
// which is enough for development and tests.
type Mailer interface {
	SendConfirmation(to, link string) error
	SendReset(to, link string) error
}

type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendConfirmation(to, link string) error {
	m.log.Info().
		Str("to", to).
		Str("link", link).
		Msg("email verification link")
	return nil
}

func (m *LogMailer) SendReset(to, link string) error {
	m.log.Info().
		Str("to", to).
		Str("link", link).
		Msg("password reset request")
	return nil
}
