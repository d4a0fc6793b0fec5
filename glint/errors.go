package glint

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a runtime diagnostic. Every binding or invocation
// failure carries exactly one kind.
type ErrorKind string

const (
	ErrTargetNotCallable    ErrorKind = "TargetNotCallable"
	ErrInvalidCallTarget    ErrorKind = "InvalidCallTarget"
	ErrArityLimitExceeded   ErrorKind = "ArityLimitExceeded"
	ErrUnknownNamedArgument ErrorKind = "UnknownNamedArgument"
	ErrPositionalAfterNamed ErrorKind = "PositionalAfterNamed"
	ErrTypeConversion       ErrorKind = "TypeConversionError"
	ErrMissingRequiredArgs  ErrorKind = "MissingRequiredArguments"
	ErrTooManyArguments     ErrorKind = "TooManyArguments"
	ErrInvocationArgument   ErrorKind = "InvocationArgumentError"
	errKindRuntime          ErrorKind = "RuntimeError"
)

type StackFrame struct {
	Function string
	Pos      Position
}

// RuntimeError is the structured, span-carrying diagnostic surfaced to hosts.
type RuntimeError struct {
	Kind      ErrorKind
	Message   string
	Pos       Position
	CodeFrame string
	Frames    []StackFrame
}

const (
	runtimeErrorFrameHead = 8
	runtimeErrorFrameTail = 8
)

var (
	errLoopBreak         = errors.New("loop break")
	errLoopNext          = errors.New("loop next")
	errStepQuotaExceeded = errors.New("step quota exceeded")
)

func (re *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "runtime error at %d:%d: %s", re.Pos.Line, re.Pos.Column, re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	renderFrame := func(frame StackFrame) {
		if frame.Pos.Line > 0 && frame.Pos.Column > 0 {
			fmt.Fprintf(&b, "\n  at %s (%d:%d)", frame.Function, frame.Pos.Line, frame.Pos.Column)
		} else if frame.Pos.Line > 0 {
			fmt.Fprintf(&b, "\n  at %s (line %d)", frame.Function, frame.Pos.Line)
		} else {
			fmt.Fprintf(&b, "\n  at %s", frame.Function)
		}
	}

	if len(re.Frames) <= runtimeErrorFrameHead+runtimeErrorFrameTail {
		for _, frame := range re.Frames {
			renderFrame(frame)
		}
		return b.String()
	}

	for _, frame := range re.Frames[:runtimeErrorFrameHead] {
		renderFrame(frame)
	}
	omitted := len(re.Frames) - (runtimeErrorFrameHead + runtimeErrorFrameTail)
	fmt.Fprintf(&b, "\n  ... %d frames omitted ...", omitted)
	for _, frame := range re.Frames[len(re.Frames)-runtimeErrorFrameTail:] {
		renderFrame(frame)
	}

	return b.String()
}

// Unwrap returns nil: RuntimeError is terminal and carries the original
// message but not the original error.
func (re *RuntimeError) Unwrap() error {
	return nil
}

// ArgumentError is returned by a callable's own validation logic to reject an
// argument by declared parameter name or slot index. The dispatcher remaps it
// to the originating argument's span. Index is -1 when the rejection is by
// name.
type ArgumentError struct {
	Name    string
	Index   int
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid argument %s: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("invalid argument %d: %s", e.Index, e.Message)
}

// ArgumentErrorf rejects the named parameter from inside a callable body.
func ArgumentErrorf(name string, format string, args ...any) error {
	return &ArgumentError{Name: name, Index: -1, Message: fmt.Sprintf(format, args...)}
}

// ArgumentIndexErrorf rejects the parameter at slot index from inside a
// callable body.
func ArgumentIndexErrorf(index int, format string, args ...any) error {
	return &ArgumentError{Index: index, Message: fmt.Sprintf(format, args...)}
}

func isLoopControlSignal(err error) bool {
	return errors.Is(err, errLoopBreak) || errors.Is(err, errLoopNext)
}

func isHostControlSignal(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, errStepQuotaExceeded)
}

func (exec *Execution) errorAt(pos Position, format string, args ...any) error {
	return exec.kindErrorAt(errKindRuntime, pos, format, args...)
}

func (exec *Execution) kindErrorAt(kind ErrorKind, pos Position, format string, args ...any) error {
	message := fmt.Sprintf(format, args...)

	frames := make([]StackFrame, 0, len(exec.callStack)+1)
	if len(exec.callStack) > 0 {
		current := exec.callStack[len(exec.callStack)-1]
		frames = append(frames, StackFrame{Function: current.Function, Pos: pos})
		for i := len(exec.callStack) - 1; i >= 0; i-- {
			cf := exec.callStack[i]
			frames = append(frames, StackFrame{Function: cf.Function, Pos: cf.Pos})
		}
	} else {
		frames = append(frames, StackFrame{Function: "<script>", Pos: pos})
	}

	codeFrame := ""
	if exec.script != nil {
		codeFrame = formatCodeFrame(exec.script.source, pos)
	}
	return &RuntimeError{Kind: kind, Message: message, Pos: pos, CodeFrame: codeFrame, Frames: frames}
}

func (exec *Execution) wrapError(err error, pos Position) error {
	if err == nil {
		return nil
	}
	if isHostControlSignal(err) {
		return err
	}
	if _, ok := err.(*RuntimeError); ok {
		return err
	}
	return exec.kindErrorAt(errKindRuntime, pos, "%s", err.Error())
}
