// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 路径清洗与目录创建
//   - xkeylock: 基于 key 的进程内互斥锁，支持 context 超时和非阻塞获取
//   - xpool: 泛型 Worker Pool，有界队列、非阻塞提交、排空关闭
package util
