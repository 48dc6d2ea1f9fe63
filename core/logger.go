package core

// Logger is the service-wide logging contract.
// args may carry anything printable; an Identity tags the log entry with the
// acting user where the implementation supports it.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Identity is the portal's view of the signed-in user, decoded (unverified)
// from the API's bearer token claims.
type Identity struct {
	ID       string
	Username string
	Email    string
}
