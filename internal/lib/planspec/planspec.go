// Package planspec содержит разбор текстовых соглашений тарифных планов.
// Планы Pay-As-You-Go распознаются по названию, а лимит откликов может быть
// закодирован строкой "Up to N hot jobs" в списке возможностей плана.
package planspec

import (
	"regexp"
	"strconv"
)

var (
	paygPattern    = regexp.MustCompile(`(?i)pay[-\s]?as[-\s]?you[-\s]?go`)
	featurePattern = regexp.MustCompile(`(?i)up to (\d+) hot jobs`)
	proPattern     = regexp.MustCompile(`(?i)pro`)
)

// IsPayAsYouGo сообщает, описывает ли название или идентификатор план Pay-As-You-Go.
func IsPayAsYouGo(s string) bool {
	return paygPattern.MatchString(s)
}

// IsPro сообщает, относится ли план к линейке Pro.
func IsPro(name string) bool {
	return proPattern.MatchString(name)
}

// FeatureLimit извлекает лимит откликов из списка возможностей плана.
// Берётся максимум по всем совпадениям "Up to N hot jobs", а не первое.
// Если ни одна строка не совпала, возвращается (0, false).
func FeatureLimit(features []string) (int, bool) {
	limit, found := 0, false
	for _, f := range features {
		for _, m := range featurePattern.FindAllStringSubmatch(f, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n > limit {
				limit = n
			}
			found = true
		}
	}
	return limit, found
}
