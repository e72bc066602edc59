package connection

import (
	"errors"
	"fmt"
)

// What a read/write loop should do after a connection error.
const (
	ConnLoopBreak uint8 = iota
	ConnLoopRetry
	ConnLoopAbnormalClosureRetry
	ConnLoopContinue
	ConnInvalidMsgType
)

type ConnErr struct {
	code  uint8
	desc  string
	cause error
}

func NewConnErr(code uint8) ConnErr {
	return ConnErr{code: code}
}

func (c ConnErr) AddDesc(desc string) ConnErr {
	c.desc = desc
	return c
}

func (c ConnErr) WithCause(cause error) ConnErr {
	c.cause = cause
	return c
}

func (c ConnErr) Error() string {
	if c.cause != nil {
		return fmt.Sprintf("connection error - code: %d\tdesc: %s\tcause: %v", c.code, c.desc, c.cause)
	}
	return fmt.Sprintf("connection error - code: %d\tdesc: %s", c.code, c.desc)
}

func (c ConnErr) Unwrap() error {
	return c.cause
}

func (c ConnErr) Code() uint8 {
	return c.code
}

// ConnErrCode extracts the loop code, ConnLoopBreak for any
// error that is not a ConnErr.
func ConnErrCode(err error) uint8 {
	var connErr ConnErr
	if errors.As(err, &connErr) {
		return connErr.code
	}
	return ConnLoopBreak
}
