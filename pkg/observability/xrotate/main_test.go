package xrotate

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain 在所有测试完成后检测 goroutine 泄漏。
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// lumberjack 的 millRun goroutine 在 Close 后不退出，属于上游限制
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}
