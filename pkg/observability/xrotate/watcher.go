package xrotate

// Host 是被观察的宿主文件。
type Host interface {
	// NextSuffix 返回当前文件下次轮转时将使用的后缀，未初始化时为空。
	// 可能在宿主持有写锁时被调用，实现不得再获取同一把锁。
	NextSuffix() string

	// FileName 返回宿主当前写入的文件路径。
	FileName() string
}

// Dispatcher 接收轮转通知。实现必须不阻塞。
type Dispatcher interface {
	Dispatch(target, suffix string) error
}

// DispatcherFunc 函数适配器
type DispatcherFunc func(target, suffix string) error

// Dispatch 实现 Dispatcher
func (f DispatcherFunc) Dispatch(target, suffix string) error {
	return f(target, suffix)
}

// Watcher 在宿主的写前准备前后比较后缀，后缀变化即表示刚发生过一次轮转，
// 旧后缀对应的文件 target+old 就是需要归档的文件。
type Watcher struct {
	host       Host
	dispatcher Dispatcher
}

// NewWatcher 创建 Watcher。d 为 nil 时只执行 prepare，不派发。
func NewWatcher(host Host, d Dispatcher) *Watcher {
	return &Watcher{host: host, dispatcher: d}
}

// PreWrite 执行宿主的写前准备 prepare，并在后缀从非空值变为另一个非空值时
// 派发恰好一次 Dispatch(FileName, 旧后缀)。
//
// 返回 prepare 的错误；派发的结果与 panic 都不会返回给调用方。
func (w *Watcher) PreWrite(prepare func() error) error {
	old := w.host.NextSuffix()
	var err error
	if prepare != nil {
		err = prepare()
	}
	if cur := w.host.NextSuffix(); old != "" && cur != "" && cur != old {
		w.Notify(old)
	}
	return err
}

// Notify 派发 target+suffix 的归档任务，用于宿主在后缀不变时的强制轮转。
func (w *Watcher) Notify(suffix string) {
	if w.dispatcher == nil || suffix == "" {
		return
	}
	defer func() { recover() }() //nolint:errcheck // 派发失败不得影响写入路径
	_ = w.dispatcher.Dispatch(w.host.FileName(), suffix)
}
