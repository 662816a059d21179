// Package xconf 基于 koanf 的配置加载与文件监视。
//
// 支持 YAML（.yaml/.yml）和 JSON（.json），格式按扩展名判断；
// 结构体字段通过 `koanf` 标签映射。
//
//	cfg, err := xconf.New("/etc/xlogroll/xlogroll.yaml")
//	var s Settings
//	err = cfg.Unmarshal("", &s)
//
// # 热更新
//
// [Watch] 监视配置文件所在目录（编辑器保存时常先删除再创建文件），
// 在防抖时间内的多次变更只触发一次 Reload 和回调。
// [Watcher.Run] 阻塞到 ctx 取消，适合放进 xrun.Group。
package xconf
