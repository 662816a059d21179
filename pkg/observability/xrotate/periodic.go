package xrotate

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/xlogroll/pkg/observability/xarchive"
	"github.com/omeyang/xlogroll/pkg/util/xfile"
)

// Periodic 按时间周期轮转的日志文件，实现 [Rotator] 与 [Host]。
//
// 每次写入前检查是否越过周期边界；越过时把当前文件重命名为 file+suffix
// （suffix 是当前周期起点按布局格式化的结果），然后打开新文件。
// 配置了 Dispatcher 时，重命名出的文件会交给它异步归档。
type Periodic struct {
	filename  string
	layout    string
	schedule  cron.Schedule
	autoFlush bool
	mode      os.FileMode
	now       func() time.Time
	onError   func(error)
	watcher   *Watcher

	mu     sync.Mutex // 保护 file/buf/next
	file   *os.File
	buf    *bufio.Writer
	next   time.Time
	suffix atomic.Pointer[string]
	closed atomic.Bool
}

var (
	_ Rotator = (*Periodic)(nil)
	_ Host    = (*Periodic)(nil)
)

// NewPeriodic 打开（必要时创建）filename 并返回周期轮转文件。
//
// 追加模式下若文件已存在，当前周期由文件修改时间决定，
// 因此上次运行遗留的旧文件会在第一次写入时以它自己的日期后缀轮转出去。
func NewPeriodic(filename string, opts ...Option) (*Periodic, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	cfg := defaultConfig()
	cfg.fileMode = DefaultFileMode
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.fileMode == 0 {
		cfg.fileMode = DefaultFileMode
	}
	if err := validateFileMode(cfg.fileMode); err != nil {
		return nil, err
	}
	if cfg.suffix == "" {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidSuffix)
	}
	sched, err := parseSchedule(cfg.schedule, cfg.suffix)
	if err != nil {
		return nil, err
	}

	safePath, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(safePath); err != nil {
		return nil, err
	}

	p := &Periodic{
		filename:  safePath,
		layout:    cfg.suffix,
		schedule:  sched,
		autoFlush: cfg.autoFlush,
		mode:      cfg.fileMode,
		now:       cfg.now,
		onError:   cfg.onError,
	}
	p.watcher = NewWatcher(p, cfg.dispatcher)

	start := p.now()
	if cfg.appendMode {
		if info, err := os.Stat(safePath); err == nil && info.Mode().IsRegular() {
			start = info.ModTime()
		}
	}
	if err := p.open(!cfg.appendMode); err != nil {
		return nil, err
	}
	p.setPeriod(start)
	return p, nil
}

// FileName 实现 Host
func (p *Periodic) FileName() string {
	return p.filename
}

// NextSuffix 实现 Host，返回当前文件轮转时将使用的后缀。
func (p *Periodic) NextSuffix() string {
	if s := p.suffix.Load(); s != nil {
		return *s
	}
	return ""
}

func (p *Periodic) setPeriod(t time.Time) {
	s := t.Format(p.layout)
	p.suffix.Store(&s)
	p.next = p.schedule.Next(t)
}

func (p *Periodic) open(truncate bool) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(p.filename, flags, p.mode)
	if err != nil {
		return fmt.Errorf("xrotate: open %s: %w", p.filename, err)
	}
	p.file = f
	if !p.autoFlush {
		p.buf = bufio.NewWriter(f)
	}
	return nil
}

func (p *Periodic) closeFile() error {
	if p.file == nil {
		return nil
	}
	var err error
	if p.buf != nil {
		err = p.buf.Flush()
		p.buf = nil
	}
	err = errors.Join(err, p.file.Close())
	p.file = nil
	return err
}

// Write 写入数据，越过周期边界时先轮转。轮转失败通过 OnError 上报，数据仍写入当前文件。
func (p *Periodic) Write(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Load() {
		return 0, ErrClosed
	}

	if err := p.watcher.PreWrite(p.rolloverIfDue); err != nil {
		p.reportError(err)
	}
	if p.file == nil {
		if err := p.open(false); err != nil {
			return 0, err
		}
	}
	if p.buf != nil {
		return p.buf.Write(b)
	}
	return p.file.Write(b)
}

func (p *Periodic) rolloverIfDue() error {
	now := p.now()
	if now.Before(p.next) {
		return nil
	}
	return p.rollover(now, false)
}

// rollover 把当前文件改名为 file+suffix 并打开新文件。
// file+suffix 或它的任一归档已存在时拒绝轮转，避免同一后缀的归档被覆盖；
// 调度触发时保留旧文件，继续写当前文件并进入新周期。
func (p *Periodic) rollover(now time.Time, strict bool) error {
	target := p.filename + p.NextSuffix()
	taken, err := occupied(target)
	if err != nil {
		return err
	}
	if taken != "" {
		if !strict {
			p.setPeriod(now)
		}
		return fmt.Errorf("%w: %s", ErrRotateConflict, taken)
	}

	if err := p.closeFile(); err != nil {
		p.reportError(err)
	}
	if err := os.Rename(p.filename, target); err != nil {
		// 改名失败时回到原文件，下个周期边界再试
		p.next = p.schedule.Next(now)
		return errors.Join(fmt.Errorf("xrotate: rename %s: %w", p.filename, err), p.open(false))
	}
	p.setPeriod(now)
	return p.open(true)
}

// Rotate 立即轮转。目标文件或它的 .gz/.zip 归档已存在时返回 [ErrRotateConflict]，不做任何修改。
// 轮转出的文件会交给 Dispatcher 归档。
func (p *Periodic) Rotate() error {
	if p.closed.Load() {
		return ErrClosed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Load() {
		return ErrClosed
	}

	old := p.NextSuffix()
	if err := p.rollover(p.now(), true); err != nil {
		return err
	}
	// 同一周期内强制轮转时后缀不变，不能依赖后缀比较
	p.watcher.Notify(old)
	return nil
}

// Flush 把缓冲数据写入文件（AutoFlush 关闭时才有缓冲）。
func (p *Periodic) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.buf == nil {
		return nil
	}
	return p.buf.Flush()
}

// Close 刷新并关闭文件。重复调用返回 [ErrClosed]。
func (p *Periodic) Close() error {
	if p.closed.Swap(true) {
		return ErrClosed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeFile()
}

func (p *Periodic) reportError(err error) {
	if err != nil && p.onError != nil {
		defer func() { recover() }() //nolint:errcheck // 回调 panic 不影响写入
		p.onError(err)
	}
}

// occupied 返回 target 及其归档中第一个已存在的路径，都不存在时返回空串。
func occupied(target string) (string, error) {
	for _, name := range []string{
		target,
		target + xarchive.FormatGzip.Ext(),
		target + xarchive.FormatZip.Ext(),
	} {
		_, err := os.Lstat(name)
		switch {
		case err == nil:
			return name, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("xrotate: stat %s: %w", name, err)
		}
	}
	return "", nil
}
