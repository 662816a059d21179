package xretention_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omeyang/xlogroll/pkg/observability/xretention"
)

func ExamplePrune() {
	tmpDir, err := os.MkdirTemp("", "xretention-example-*")
	if err != nil {
		fmt.Println("创建临时目录失败:", err)
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	for _, name := range []string{"app.log", "app.log.1.gz", "app.log.2.gz", "app.log.3.gz", "app.log.3.zip"} {
		_ = os.WriteFile(filepath.Join(tmpDir, name), nil, 0o600)
	}

	// 只统计 .gz 归档，保留名称最大的 2 个
	deleted, err := xretention.Prune(tmpDir, "app.log", ".gz", 2)
	if err != nil {
		fmt.Println("清理失败:", err)
		return
	}
	fmt.Println("deleted:", deleted)

	entries, _ := os.ReadDir(tmpDir)
	for _, e := range entries {
		fmt.Println(e.Name())
	}
	// Output:
	// deleted: 1
	// app.log
	// app.log.2.gz
	// app.log.3.gz
	// app.log.3.zip
}
