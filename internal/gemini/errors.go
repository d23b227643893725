package gemini

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type ErrorKind int

const (
	// cookie文件缺失/格式错误/缺少必需cookie,或未初始化
	KindConfiguration ErrorKind = iota + 1
	// 传输失败、超时、非2xx
	KindNetwork
	// 页面或响应结构不符
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	}
	return "unknown"
}

// Error carries the failure kind and the operation that produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Kind.String() + " error: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsConfiguration(err error) bool {
	return kindOf(err) == KindConfiguration
}

func IsNetwork(err error) bool {
	return kindOf(err) == KindNetwork
}

func IsParse(err error) bool {
	return kindOf(err) == KindParse
}

// PathError locates a shape mismatch inside the response envelope.
type PathError struct {
	Field  string
	Path   []int
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("field %s at %s: %s", e.Field, formatPath(e.Path), e.Reason)
}

func formatPath(path []int) string {
	var b strings.Builder
	for _, i := range path {
		b.WriteString("[")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("]")
	}
	if b.Len() == 0 {
		return "root"
	}
	return b.String()
}
