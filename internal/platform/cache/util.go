package cache

import (
	"strings"
	"time"
)

// RefreshHour はメタデータを更新する現地時刻（時）です。市場が開く前に入れ替わるようにしています。
const RefreshHour = 8

// TimeUntilNext は now から loc における次の hour 時ちょうどまでの期間を返します。
// ちょうど hour 時の場合は翌日までの期間になります。
func TimeUntilNext(now time.Time, hour int, loc *time.Location) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !local.Before(next) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next.Sub(now)
}

// safe はRedisキーで問題となる文字を置き換えます。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
