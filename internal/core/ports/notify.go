package ports

// Mailer delivers transactional mail (verification codes). Implementations
// without a configured transport may fall back to logging the message.
type Mailer interface {
	Send(to, subject, body string) error
}

// ProofStore persists proof-of-employment documents at rest, encrypted.
type ProofStore interface {
	Save(name string, data []byte) (path string, err error)
	Load(path string) ([]byte, error)
}
