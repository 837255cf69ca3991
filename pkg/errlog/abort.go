package errlog

type bailout struct{}

// HandleAbort runs f and converts a call to Abort into exit code 1.
func HandleAbort(f func() int) (exitCode int) {
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(bailout); !ok {
				panic(e) // Resume same panic if it's not a bailout.
			}
			exitCode = 1
		}
	}()
	return f()
}

func Abort(format string, args ...any) {
	PrintWithMarker("ERROR>>> ", format, args...)
	panic(bailout{})
}
