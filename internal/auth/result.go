package auth

import "github.com/go-authgate/apigate/internal/models"

// RejectReason classifies why a credential was not accepted.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	ReasonMissingCredential
	ReasonMalformedCredential
	ReasonInvalidSignatureOrExpired
	ReasonUnknownSubject
	ReasonBadPassword
)

// String returns the stable label used in logs and metrics.
func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMissingCredential:
		return "missing_credential"
	case ReasonMalformedCredential:
		return "malformed_credential"
	case ReasonInvalidSignatureOrExpired:
		return "invalid_token"
	case ReasonUnknownSubject:
		return "unknown_subject"
	case ReasonBadPassword:
		return "bad_password"
	default:
		return "unknown"
	}
}

// Result is the outcome of verifying one credential: either an identity or
// a rejection reason, never both. Subject is the name the credential claimed,
// kept for logging.
type Result struct {
	Identity *models.User
	Reason   RejectReason
	Subject  string
}

// Authenticated reports whether r carries a resolved identity.
func (r Result) Authenticated() bool {
	return r.Reason == ReasonNone && r.Identity != nil
}

func allow(identity *models.User) Result {
	return Result{Identity: identity, Subject: identity.Username}
}

func reject(reason RejectReason, subject string) Result {
	return Result{Reason: reason, Subject: subject}
}
