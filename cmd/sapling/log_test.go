package main

import (
	"bytes"
	"testing"
)

func TestLoggerLogf(t *testing.T) {
	buf := &bytes.Buffer{}
	orig := logOutput
	defer func() { logOutput = orig }()
	logOutput = buf

	logger(false).Logf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
	logger(true).Logf("Growing tree for %s", "class")
	logger(true).Logf("multi\nline\n")
	want := "sapling: Growing tree for class\nsapling: multi\nline\n"
	if buf.String() != want {
		t.Errorf("logged %q, want %q", buf.String(), want)
	}
}
