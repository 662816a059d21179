package xkeylock

import "errors"

var (
	// ErrLockNotHeld 表示锁已被释放，重复 Unlock 时返回。
	ErrLockNotHeld = errors.New("xkeylock: lock not held")

	// ErrClosed 表示 Locker 已关闭。
	ErrClosed = errors.New("xkeylock: closed")

	// ErrLockOccupied 表示 TryAcquire 时锁已被占用。
	ErrLockOccupied = errors.New("xkeylock: lock occupied")

	// ErrInvalidKey 表示 key 为空字符串。
	ErrInvalidKey = errors.New("xkeylock: invalid key")

	// ErrInvalidShardCount 表示分片数不是 2 的幂或超出范围。
	ErrInvalidShardCount = errors.New("xkeylock: invalid shard count")
)
