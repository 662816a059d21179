package xrun

import (
	"errors"
	"fmt"
	"os"
)

// ErrSignal 表示因收到系统信号而终止。
var ErrSignal = errors.New("received signal")

// ErrNilFunc 表示传入了 nil 任务函数。
var ErrNilFunc = errors.New("xrun: nil function")

// ErrInvalidInterval 表示 Ticker 的间隔参数无效（必须为正数）。
var ErrInvalidInterval = errors.New("xrun: interval must be positive")

// SignalError 包含触发终止的具体信号。
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error 接口。
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Unwrap 使 errors.Is(err, ErrSignal) 成立。
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
