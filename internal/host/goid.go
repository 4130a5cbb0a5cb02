package host

import "runtime"

// goid returns the current goroutine's id, parsed from the stack header
// "goroutine NNN [". Only used for the UI affinity check.
func goid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
