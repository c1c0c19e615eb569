package core

// Logger is any service that can report application events and errors.
// Implementations may extract a user.User from args to tag the report
// with the acting user.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
