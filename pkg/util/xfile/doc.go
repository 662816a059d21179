// Package xfile 提供日志文件相关的文件系统工具。
//
// # 路径规范化
//
// [SanitizePath] 对日志文件路径做格式净化：拒绝空路径、空字节、
// 以分隔符结尾的目录路径以及作为独立路径段出现的 ".."。
// 以 ".." 开头的合法文件名（如 "..app.log"）不会被误判。
//
// # 目录与文件
//
//   - [EnsureDir]/[EnsureDirWithPerm]: 确保文件的父目录存在
//   - [IsRegularFile]: 判断路径是否为存在的普通文件
//
// 预定义错误变量支持 [errors.Is] 判断。
package xfile
