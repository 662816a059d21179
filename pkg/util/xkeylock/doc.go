// Package xkeylock 提供基于 key 的进程内互斥锁。
//
// 同一 key 的持有者互斥，不同 key 之间互不影响。内部按 key 的 xxhash 值分片，
// 条目在最后一个持有者/等待者释放后自动回收，不会随 key 数量无限增长。
//
// 典型用法是为"列目录然后删除"这类非原子的目录级操作加临界区：
//
//	h, err := locker.Acquire(ctx, dir)
//	if err != nil {
//	    return err
//	}
//	defer h.Unlock()
//
// 锁不可重入，与 sync.Mutex 一致。
package xkeylock
