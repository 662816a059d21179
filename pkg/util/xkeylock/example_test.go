package xkeylock_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/omeyang/xlogroll/pkg/util/xkeylock"
)

func ExampleNew() {
	locker, err := xkeylock.New()
	if err != nil {
		fmt.Println("创建失败:", err)
		return
	}
	defer locker.Close()

	h, err := locker.Acquire(context.Background(), "/var/log/app")
	if err != nil {
		fmt.Println("加锁失败:", err)
		return
	}
	fmt.Println("持有:", h.Key())

	_, err = locker.TryAcquire("/var/log/app")
	fmt.Println("重复加锁被拒绝:", errors.Is(err, xkeylock.ErrLockOccupied))

	_ = h.Unlock()
	fmt.Println("剩余 key:", locker.Len())
	// Output:
	// 持有: /var/log/app
	// 重复加锁被拒绝: true
	// 剩余 key: 0
}
