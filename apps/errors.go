package apps

// ArgumentError is a command-line argument the executables reject.
type ArgumentError struct {
	msg string
}

func NewArgumentError(msg string) *ArgumentError {
	return &ArgumentError{msg}
}

func (err *ArgumentError) Error() string {
	return "invalid argument: " + err.msg
}
