package use

import (
	"fmt"
	"go/ast"
	"go/token"
)

func Err(message string) *Error {
	return &Error{message: message}
}

func Errf(format string, args ...any) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// FileCommentErr binds the error to the position of the config comment that caused it.
func FileCommentErr(err error, fileSet *token.FileSet, comment *ast.Comment) *Error {
	return &Error{message: err.Error(), cause: err, fileSet: fileSet, pos: comment.Pos()}
}

// Error is a configuration error caused by the user input: flags, config comments or the processed type.
type Error struct {
	message string
	cause   error

	fileSet *token.FileSet
	pos     token.Pos
}

func (e *Error) Error() string {
	m := e.message
	if e.fileSet != nil && e.pos.IsValid() {
		m += fmt.Sprintf(" (%s)", e.fileSet.Position(e.pos))
	}
	return m
}

func (e *Error) Unwrap() error {
	return e.cause
}
