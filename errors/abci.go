package errors

import "fmt"

// ABCIError rebuilds an error from the code and the log of an abci
// response, so that callers can test it with Is. A zero code is no error.
func ABCIError(code uint32, log string) error {
	if code == 0 {
		return nil
	}
	if root, ok := usedCodes[code]; ok && root != nil {
		return Wrap(root, log)
	}
	return &unknownError{code: code, log: log}
}

type coder interface {
	ABCICode() uint32
}

// unknownError keeps the code of a response that no registered root error
// matches.
type unknownError struct {
	code uint32
	log  string
}

func (e *unknownError) Error() string {
	return fmt.Sprintf("code %d: %s", e.code, e.log)
}

func (e *unknownError) ABCICode() uint32 {
	return e.code
}
