// Package timefmt renders timestamps the way the timeline shows them:
// relative for recent posts, a short date within the year, and a full
// date beyond that.
package timefmt

import (
	"fmt"
	"time"
)

// Recognizable formats t relative to now.
//
//	< 1s      今
//	< 1m      N秒前
//	< 1h      N分前
//	< 1d      N時間前
//	< 7d      N日前
//	< 330d    MM/DD
//	otherwise YYYY/MM/DD
//
// Future timestamps (clock skew) render as 今.  Dates use t's location.
func Recognizable(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Second:
		return "今"
	case d < time.Minute:
		return fmt.Sprintf("%d秒前", int(d/time.Second))
	case d < time.Hour:
		return fmt.Sprintf("%d分前", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d時間前", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d日前", int(d/(24*time.Hour)))
	case d < 330*24*time.Hour:
		return t.Format("01/02")
	default:
		return t.Format("2006/01/02")
	}
}
