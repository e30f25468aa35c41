package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/sapling"
)

// logOutput is where verbose logs go
var logOutput io.Writer = os.Stderr

// logger is the --verbose flag: when true, Logf writes a line to logOutput.
// It is handed to sapling.Fit to report how trees are grown.
type logger bool

var _ sapling.Logger = logger(false)

func (l logger) Logf(format string, a ...interface{}) {
	if !l {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, a...), "\n")
	fmt.Fprintf(logOutput, "sapling: %s\n", line)
}
