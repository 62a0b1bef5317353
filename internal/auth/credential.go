package auth

import (
	"encoding/base64"
	"strings"
)

// CredentialKind tags the variant held by a Credential.
type CredentialKind int

const (
	CredentialMissing CredentialKind = iota
	CredentialBearer
	CredentialBasic
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialBearer:
		return "bearer"
	case CredentialBasic:
		return "basic"
	default:
		return "missing"
	}
}

// Credential is the credential material carried by an Authorization header.
// Token is set for CredentialBearer; Username and Password for CredentialBasic.
type Credential struct {
	Kind     CredentialKind
	Token    string
	Username string
	Password string
}

// ExtractCredential parses an Authorization header value. Scheme names match
// case-insensitively. Unknown schemes are reported as CredentialMissing, and
// an undecodable basic payload yields a basic credential with empty fields.
func ExtractCredential(header string) Credential {
	scheme, rest, ok := strings.Cut(header, " ")
	if !ok {
		return Credential{Kind: CredentialMissing}
	}

	switch {
	case strings.EqualFold(scheme, "bearer"):
		return Credential{Kind: CredentialBearer, Token: rest}
	case strings.EqualFold(scheme, "basic"):
		username, password := decodeBasic(rest)
		return Credential{Kind: CredentialBasic, Username: username, Password: password}
	default:
		return Credential{Kind: CredentialMissing}
	}
}

func decodeBasic(payload string) (string, string) {
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ""
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", ""
	}
	return username, password
}
