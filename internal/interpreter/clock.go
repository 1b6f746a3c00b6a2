package interpreter

import "time"

// nowUnixNano is split out from the clock() builtin so it is the only
// piece of interpreter behavior that is not a pure function of its AST
// input.
func nowUnixNano() int64 {
	return time.Now().UnixNano()
}
