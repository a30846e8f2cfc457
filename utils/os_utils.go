package utils

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func WaitTerminate() <-chan os.Signal {
	c := make(chan os.Signal, 3)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	return c
}

func RedirectFile(from, to *os.File) error {
	return syscall.Dup2(int(to.Fd()), int(from.Fd()))
}

// LogToFile sends the logger and stderr to path. The caller closes the file.
func LogToFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %v: %w", path, err)
	}
	SetOutput(f)
	if err := RedirectFile(os.Stderr, f); err != nil {
		f.Close()
		return nil, fmt.Errorf("redirect stderr to %v: %w", path, err)
	}
	return f, nil
}
