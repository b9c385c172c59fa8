package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

var logfile *os.File
var verbose bool
var stdout io.Writer = os.Stdout
var stderr io.Writer = os.Stderr

// Init mirrors every message into <user config dir>/loadorder/logs/loadorder.log.
func Init() {
	dir, _ := os.UserConfigDir()
	p := filepath.Join(dir, "loadorder", "logs")
	_ = os.MkdirAll(p, 0o755)
	f, err := os.OpenFile(filepath.Join(p, "loadorder.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	logfile = f
	log.SetOutput(f)
}

func Close() {
	if logfile != nil {
		_ = logfile.Close()
	}
}

// SetOutput redirects console output, mainly for tests.
func SetOutput(out, errOut io.Writer) {
	stdout = out
	stderr = errOut
}

func color(code, s string) string { return "\x1b[" + code + "m" + s + "\x1b[0m" }

func Info(msg string) {
	_, _ = fmt.Fprintln(stdout, msg)
	log.Println(msg)
}

func Success(msg string) {
	_, _ = fmt.Fprintln(stdout, color("32", msg))
	log.Println(msg)
}

func Warn(msg string) {
	_, _ = fmt.Fprintln(stderr, color("33", msg))
	log.Println("[WARN] " + msg)
}

func Error(msg string) {
	_, _ = fmt.Fprintln(stderr, color("31", msg))
	log.Println(msg)
}

func Gray(msg string) {
	_, _ = fmt.Fprintln(stdout, color("90", msg))
	log.Println(msg)
}

// SetVerbose toggles verbose output to stdout.
func SetVerbose(v bool) { verbose = v }

// Debug prints only when verbose mode is enabled.
func Debug(msg string) {
	if !verbose {
		return
	}
	_, _ = fmt.Fprintln(stdout, color("90", msg))
	log.Println("[DEBUG] " + msg)
}
