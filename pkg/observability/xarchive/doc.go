// Package xarchive 把一个已轮转的日志文件压缩为 GZIP 或 ZIP 归档。
//
// # 行为
//
// [Archive] 在源文件旁写出 src+".gz" 或 src+".zip"，所有流成功关闭后才删除源文件。
// 写入失败时保留源文件，可能残留不完整的目标文件，由调用方决定如何处理。
// 已存在的目标文件不会被覆盖。
//
//   - GZIP：单成员 gzip 流，头部 Name 为源文件名，ModTime 为源文件修改时间
//   - ZIP：只含一个 deflate 条目的归档，条目名为源文件的 base name
//
// 压缩实现使用 github.com/klauspost/compress，与标准库格式兼容。
//
// # 错误
//
//   - [ErrSourceMissing]：源文件不存在或不是普通文件
//   - [ErrWriteFailure]：目标文件已存在，或创建、写入、关闭目标文件失败
//   - [ErrRemoveSource]：归档已完成，但删除源文件失败
package xarchive
