package georand

import (
	"path/filepath"
	"sync"
	"testing"

	log "github.com/inconshreveable/log15"
)

var testDataset = filepath.Join("testdata", "countries.geojson")

func loadTestRegistry(t testing.TB, opts ...Option) *Registry {
	t.Helper()
	reg, err := LoadRegistry(testDataset, opts...)
	if err != nil {
		t.Fatalf("LoadRegistry(%s) error = %v", testDataset, err)
	}
	return reg
}

// recordingLogger returns a logger that keeps every record it receives.
type recordingLogger struct {
	log.Logger
	mu      sync.Mutex
	records []*log.Record
}

func newRecordingLogger() *recordingLogger {
	rl := &recordingLogger{Logger: log.New()}
	rl.SetHandler(log.FuncHandler(func(r *log.Record) error {
		rl.mu.Lock()
		defer rl.mu.Unlock()
		rl.records = append(rl.records, r)
		return nil
	}))
	return rl
}

func (rl *recordingLogger) messages() []string {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	msgs := make([]string, len(rl.records))
	for i, r := range rl.records {
		msgs[i] = r.Msg
	}
	return msgs
}
