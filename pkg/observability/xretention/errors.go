package xretention

import "errors"

var (
	// ErrDeleteFailure 表示某个过期备份删除失败。
	ErrDeleteFailure = errors.New("xretention: delete failure")

	// ErrListFailure 表示读取目录失败。
	ErrListFailure = errors.New("xretention: list failure")

	// ErrEmptyPrefix 表示前缀为空，会匹配目录中所有文件。
	ErrEmptyPrefix = errors.New("xretention: empty prefix")
)
