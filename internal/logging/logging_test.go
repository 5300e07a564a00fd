package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger
	var buf bytes.Buffer
	Logger = log.New(&buf, "", 0)
	t.Cleanup(func() { Logger = prev })
	return &buf
}

func TestUserLogAlwaysWrites(t *testing.T) {
	buf := capture(t)

	UserLog("session %s selected", "work")
	if got := buf.String(); !strings.Contains(got, "[USER] session work selected") {
		t.Errorf("UserLog output = %q", got)
	}
}

func TestErrorLogAlwaysWrites(t *testing.T) {
	buf := capture(t)

	ErrorLog("save failed: %v", "disk full")
	if got := buf.String(); !strings.Contains(got, "[ERROR] save failed: disk full") {
		t.Errorf("ErrorLog output = %q", got)
	}
}

func TestDevLogGatedOnDevMode(t *testing.T) {
	buf := capture(t)
	prev := DevMode
	t.Cleanup(func() { DevMode = prev })

	DevMode = false
	DevLog("hidden detail")
	if buf.Len() != 0 {
		t.Errorf("DevLog wrote with DevMode off: %q", buf.String())
	}

	DevMode = true
	DevLog("visible detail")
	if got := buf.String(); !strings.Contains(got, "[DEV] visible detail") {
		t.Errorf("DevLog output = %q", got)
	}
}
