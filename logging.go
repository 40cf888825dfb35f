package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type flogger interface {
	Println(v ...interface{})
	Printf(format string, v ...interface{})
}

// ThreadLogger prefixes everything with the name of the goroutine
type ThreadLogger struct {
	name string
}

func (tl *ThreadLogger) Println(v ...interface{}) {
	log.Printf("%s: %s", tl.name, fmt.Sprintln(v...))
}

func (tl *ThreadLogger) Printf(format string, v ...interface{}) {
	log.Printf("%s: %s", tl.name, fmt.Sprintf(format, v...))
}

// setupLogging sends the log to a rotating file, and to stderr as well
// when asked. The returned closer flushes the file.
func setupLogging(settings configSettings, echo bool) (io.Closer, error) {
	path := settings.GetString(sLogFile)
	if path == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	// make sure we can write there before handing it to the logger
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("log file %s: %w", path, err)
	}
	f.Close()

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	if echo || settings.GetBool(sLogStderr) {
		log.SetOutput(io.MultiWriter(lj, os.Stderr))
	} else {
		log.SetOutput(lj)
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return lj, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
