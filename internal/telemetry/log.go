// Package telemetry is a thin wrapper around the standard logger using the
// bracketed-component-prefix convention the rest of the system follows
// ("[audit] ...", "[dnsauthd] ...") instead of a structured-logging library.
package telemetry

import "log"

// Logger prefixes every line with "[component] ".
type Logger struct {
	component string
}

// New returns a Logger for component.
func New(component string) Logger {
	return Logger{component: component}
}

func (l Logger) Printf(format string, args ...interface{}) {
	log.Printf("["+l.component+"] "+format, args...)
}

func (l Logger) Println(args ...interface{}) {
	log.Println(append([]interface{}{"[" + l.component + "]"}, args...)...)
}

func (l Logger) Fatalf(format string, args ...interface{}) {
	log.Fatalf("["+l.component+"] "+format, args...)
}
