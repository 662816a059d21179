// Package xretention 按数量上限清理目录中的归档备份。
//
// 备份文件按"文件名以前缀开头且以扩展名结尾"匹配，按文件名字典序降序排列，
// 保留前 limit 个，删除其余。日期或数字后缀在字典序下即为新旧顺序，
// 因此不读取文件修改时间。
//
// limit <= 0 表示不限制，不列目录也不删除任何文件。
//
// 单个文件删除失败不会中断清理，所有失败通过 errors.Join 汇总返回，
// 每个失败都包装了 [ErrDeleteFailure]。
//
// [Pruner] 在同一操作外加可选的目录级互斥（xkeylock），
// 防止多个任务同时对同一目录做"列出再删除"。
package xretention
