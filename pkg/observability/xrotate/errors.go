package xrotate

import "errors"

// 配置校验错误
var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrInvalidMaxSize MaxSizeMB 值无效（必须在 1~10240 范围内）
	ErrInvalidMaxSize = errors.New("xrotate: invalid MaxSizeMB")

	// ErrInvalidMaxBackups 备份数量无效
	ErrInvalidMaxBackups = errors.New("xrotate: invalid MaxBackups")

	// ErrInvalidMaxAge MaxAgeDays 值无效（必须在 0~3650 范围内）
	ErrInvalidMaxAge = errors.New("xrotate: invalid MaxAgeDays")

	// ErrNoCleanupPolicy MaxBackups 和 MaxAgeDays 不能同时为 0
	ErrNoCleanupPolicy = errors.New("xrotate: no cleanup policy configured")

	// ErrInvalidFileMode FileMode 包含非权限位
	ErrInvalidFileMode = errors.New("xrotate: invalid FileMode")

	// ErrInvalidSuffix 后缀布局不含任何可识别的时间单位
	ErrInvalidSuffix = errors.New("xrotate: invalid suffix layout")

	// ErrInvalidSchedule cron 表达式无法解析
	ErrInvalidSchedule = errors.New("xrotate: invalid schedule")

	// ErrInvalidPool worker 数或队列长度无效
	ErrInvalidPool = errors.New("xrotate: invalid pool size")
)

// 运行时错误
var (
	// ErrClosed 轮转器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")

	// ErrPipelineClosed 流水线已关闭，不再接收任务
	ErrPipelineClosed = errors.New("xrotate: pipeline is closed")

	// ErrRotateConflict 轮转目标文件已存在
	ErrRotateConflict = errors.New("xrotate: rotated file already exists")

	// ErrInvalidJob 任务缺少目标文件或后缀
	ErrInvalidJob = errors.New("xrotate: invalid job")
)
