// Package config 定义 xlogroll 的配置结构。
//
// 配置通过 xconf 从 YAML/JSON 文件加载，未出现的字段保留 [Default] 中的值，
// 加载后经 [Settings.Validate] 校验，再转换为 xrotate 的周期轮转选项与
// 后处理流水线选项。archive 与 retention 两节支持热更新。
package config
