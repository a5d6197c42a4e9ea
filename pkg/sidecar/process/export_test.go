package process

import "time"

func OverloadTimeNow(overload func() time.Time) func() {
	timeNowRef := timeNow
	timeNow = overload
	return func() { timeNow = timeNowRef }
}

func StaleCheck(sess Session, staleAfter time.Duration, started time.Time) func(time.Time) {
	m := monitor{sess: sess, staleAfter: staleAfter, started: started}
	return m.check
}

func RenderOnce(sess Session, rowAlignment int) func() {
	r := renderer{sess: sess, rowAlignment: rowAlignment}
	return r.render
}
