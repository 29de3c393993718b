package common

// Fixed keys in the persistent key-value store. Credential and profile are
// always written and cleared together so a session is never found torn.
const (
	KeyCredential = "credential"
	KeyProfile    = "profile"
)

// AuthHeaderName is the HTTP header carrying the bearer credential.
const AuthHeaderName = "Authorization"
