package xarchive_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omeyang/xlogroll/pkg/observability/xarchive"
)

func ExampleArchive() {
	tmpDir, err := os.MkdirTemp("", "xarchive-example-*")
	if err != nil {
		fmt.Println("创建临时目录失败:", err)
		return
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	src := filepath.Join(tmpDir, "app.log.2026-10-16")
	if err := os.WriteFile(src, []byte("hello xarchive\n"), 0o600); err != nil {
		fmt.Println("写入失败:", err)
		return
	}

	dst, err := xarchive.Archive(src, xarchive.FormatGzip)
	if err != nil {
		fmt.Println("归档失败:", err)
		return
	}
	_, statErr := os.Stat(src)
	fmt.Println(filepath.Base(dst))
	fmt.Println("源文件已删除:", os.IsNotExist(statErr))
	// Output:
	// app.log.2026-10-16.gz
	// 源文件已删除: true
}

func ExampleParseFormat() {
	for _, name := range []string{"gzip", "GZ", "zip", "rar"} {
		f, err := xarchive.ParseFormat(name)
		if err != nil {
			fmt.Println(name, "-> 不支持")
			continue
		}
		fmt.Println(name, "->", f, f.Ext())
	}
	// Output:
	// gzip -> gzip .gz
	// GZ -> gzip .gz
	// zip -> zip .zip
	// rar -> 不支持
}
