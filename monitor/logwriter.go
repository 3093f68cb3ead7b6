package monitor

import "strings"

// LogWriter is an io.Writer that rebroadcasts each log line written to it as
// a StageEvent's free-form stage field, letting enginecfg.Config.Logger feed
// a Hub directly without the refinement driver knowing monitor exists.
type LogWriter struct {
	Hub      *Hub
	sequence int
}

// NewLogWriter wraps hub so it can be installed as an enginecfg.Config
// logger's output.
func NewLogWriter(hub *Hub) *LogWriter {
	return &LogWriter{Hub: hub}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	if line != "" {
		w.sequence++
		w.Hub.BroadcastStageEvent(StageEvent{Stage: line, Sequence: w.sequence})
	}
	return len(p), nil
}
