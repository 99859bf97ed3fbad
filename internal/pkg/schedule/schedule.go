package schedule

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khiandraj/Finance-Tracker/internal/model"
)

var (
	ErrNonPositiveAmount = errors.New("金额必须大于 0")
	ErrInvalidFrequency  = errors.New("不支持的扣费周期")
)

// ParseFrequency 解析周期字符串
func ParseFrequency(s string) (model.Frequency, error) {
	f := model.Frequency(s)
	switch f {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyBiWeekly,
		model.FrequencyMonthly, model.FrequencyQuarterly,
		model.FrequencySemiAnnually, model.FrequencyAnnually:
		return f, nil
	}
	return "", ErrInvalidFrequency
}

// Validate 校验订阅金额和周期
func Validate(amount decimal.Decimal, frequency model.Frequency) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if _, err := ParseFrequency(string(frequency)); err != nil {
		return err
	}
	return nil
}

// CalculateNext 计算下一次扣费时间。
// 按月/年推进时月末溢出向下取整到当月最后一天（1月31日 + 1个月 = 2月28/29日），
// time.AddDate 会把溢出顺延到下个月，这里不能用。
func CalculateNext(fromUtc time.Time, frequency model.Frequency) (time.Time, error) {
	switch frequency {
	case model.FrequencyDaily:
		return fromUtc.AddDate(0, 0, 1), nil
	case model.FrequencyWeekly:
		return fromUtc.AddDate(0, 0, 7), nil
	case model.FrequencyBiWeekly:
		return fromUtc.AddDate(0, 0, 14), nil
	case model.FrequencyMonthly:
		return addMonthsClamped(fromUtc, 1), nil
	case model.FrequencyQuarterly:
		return addMonthsClamped(fromUtc, 3), nil
	case model.FrequencySemiAnnually:
		return addMonthsClamped(fromUtc, 6), nil
	case model.FrequencyAnnually:
		return addMonthsClamped(fromUtc, 12), nil
	}
	return time.Time{}, ErrInvalidFrequency
}

// addMonthsClamped 加 n 个月，日期超过目标月天数时取目标月最后一天
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
