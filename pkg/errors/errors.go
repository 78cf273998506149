// Package errors wraps errors with the location where they are wrapped.
//
//	return xe.Wrap(err)
//
// The message of a wrapped error reads like
//
//	@ pkg.Func "file.go" l42 <- cause
//
// so a chain of wraps gives a cheap trace of where an error passed through.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrWithCaller is an error annotated with the function, file and line it was wrapped at.
type ErrWithCaller struct {
	file     string
	line     int
	funcname string
	note     string
	err      error
}

func (e *ErrWithCaller) File() string {
	return e.file
}

func (e *ErrWithCaller) Line() int {
	return e.line
}

func (e *ErrWithCaller) Func() string {
	return e.funcname
}

func (e *ErrWithCaller) Error() string {
	if e.note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.funcname, e.file, e.line, e.err)
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, e.funcname, e.file, e.line, e.note, e.err)
}

func (e *ErrWithCaller) Unwrap() error {
	return e.err
}

// New creates an error with text, marked with the caller.
func New(text string) error {
	return wrap("", errors.New(text), 1)
}

// Wrap marks err with the caller. nil stays nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return wrap("", err, 1)
}

// WrapWithNote is Wrap with a short human readable note.
func WrapWithNote(note string, err error) error {
	if err == nil {
		return nil
	}
	return wrap(note, err, 1)
}

func wrap(note string, err error, depth int) error {
	pc, file, line, ok := runtime.Caller(depth + 1)
	funcname := "(unknown func)"
	if !ok {
		file = "?"
		line = -1
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcname = fn.Name()
	}

	return &ErrWithCaller{
		funcname: funcname,
		file:     file,
		line:     line,
		note:     note,
		err:      err,
	}
}
