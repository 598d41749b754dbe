package helper

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// ErrorWrapper returns a function that calls fn and substitutes def when fn
// returns an error or panics. The fault is logged at warn level.
func ErrorWrapper[A, R any](fn func(A) (R, error), def R) func(A) R {
	return func(a A) (out R) {
		defer recoverTo(&out, def)
		v, err := fn(a)
		if err != nil {
			logrus.WithError(err).Warn("wrapped call failed, using default value")
			return def
		}
		return v
	}
}

// ErrorWrapper0 is ErrorWrapper for functions without arguments.
func ErrorWrapper0[R any](fn func() (R, error), def R) func() R {
	wrapped := ErrorWrapper(func(struct{}) (R, error) { return fn() }, def)
	return func() R { return wrapped(struct{}{}) }
}

func recoverTo[R any](out *R, def R) {
	r := recover()
	if r == nil {
		return
	}
	logrus.WithField("panic", r).Warn("wrapped call panicked, using default value")
	logrus.Debugf("%s", debug.Stack())
	*out = def
}
