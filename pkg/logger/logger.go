// Package logger is a thin leveled wrapper over the standard log package.
// Levels are plain prefixes on one shared writer; there is no filtering.
package logger

import "log"

// Init sets the timestamp flags. Called once from main.
func Init() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}

func printf(level, format string, v ...any) {
	log.Printf("["+level+"] "+format, v...)
}

func Infof(format string, v ...any) {
	printf("INFO", format, v...)
}

func Warnf(format string, v ...any) {
	printf("WARN", format, v...)
}

func Errorf(format string, v ...any) {
	printf("ERROR", format, v...)
}

func Debugf(format string, v ...any) {
	printf("DEBUG", format, v...)
}

func Fatalf(format string, v ...any) {
	log.Fatalf("[FATAL] "+format, v...)
}
