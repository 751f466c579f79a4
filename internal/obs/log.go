package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
)

// The service writes one JSON object per line to stdout. Request lines
// come from the HTTP middleware, audit events from the audit package.

var (
	initOnce sync.Once
	stdout   *log.Logger
)

// Logger returns the process-wide line logger. It carries no prefix or
// flags so every caller emits the whole line, timestamp included.
func Logger() *log.Logger {
	initOnce.Do(func() {
		stdout = log.New(os.Stdout, "", 0)
	})
	return stdout
}

// LogRequest writes the entry as a single JSON line. A marshal failure
// is reported in place of the entry rather than silently dropped.
func LogRequest(entry map[string]any) {
	line, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"level":"error","msg":"request log entry not serializable"}`)
		return
	}
	Logger().Println(string(line))
}
