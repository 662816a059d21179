package xrotate

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// layoutSchedules 按从小到大的时间单位排列：布局中出现的最小单位决定轮转周期。
var layoutSchedules = []struct {
	tokens []string
	spec   string
}{
	{tokens: []string{"04"}, spec: "* * * * *"},
	{tokens: []string{"15", "03"}, spec: "0 * * * *"},
	{tokens: []string{"02", "_2"}, spec: "0 0 * * *"},
	{tokens: []string{"01", "Jan"}, spec: "0 0 1 * *"},
	{tokens: []string{"2006"}, spec: "0 0 1 1 *"},
}

// scheduleForLayout 由后缀布局推导标准 cron 表达式。
func scheduleForLayout(layout string) (string, error) {
	for _, ls := range layoutSchedules {
		for _, tok := range ls.tokens {
			if strings.Contains(layout, tok) {
				return ls.spec, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q has no minute, hour, day, month or year", ErrInvalidSuffix, layout)
}

// parseSchedule 解析 spec，为空时由 layout 推导。
func parseSchedule(spec, layout string) (cron.Schedule, error) {
	if spec == "" {
		derived, err := scheduleForLayout(layout)
		if err != nil {
			return nil, err
		}
		spec = derived
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, spec, err)
	}
	return sched, nil
}
