package frame

import "time"

func OverloadTimeNow(o func() time.Time) func() {
	timeNowRef := timeNow
	timeNow = o
	return func() { timeNow = timeNowRef }
}
