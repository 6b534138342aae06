package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func decodeLines(t *testing.T, buf fmt.Stringer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func TestCronLogger(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l cronLogger)
		level string
		msg   string
		field string
		value interface{}
	}{
		{
			name:  "info becomes debug",
			log:   func(l cronLogger) { l.Info("skip", "entry", 3) },
			level: "debug",
			msg:   "cron: skip",
			field: "entry",
			value: float64(3),
		},
		{
			name:  "error keeps err",
			log:   func(l cronLogger) { l.Error(errors.New("boom"), "panic", "job", "cleanup") },
			level: "error",
			msg:   "cron: panic",
			field: "error",
			value: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(cronLogger{logger: zerolog.New(&buf).Level(zerolog.DebugLevel)})

			entries := decodeLines(t, &buf)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0]["level"])
			assert.Equal(t, tt.msg, entries[0]["message"])
			assert.Equal(t, tt.value, entries[0][tt.field])
		})
	}
}

func TestSchedulerLogsThroughZerolog(t *testing.T) {
	buf := &lockedBuffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel)

	s, err := NewScheduler("@every 1h", &countingCleaner{}, logger)
	require.NoError(t, err)
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	entries := decodeLines(t, buf)
	var messages []string
	for _, e := range entries {
		if msg, ok := e["message"].(string); ok {
			messages = append(messages, msg)
		}
	}
	assert.Contains(t, messages, "Token cleanup job scheduled")
	assert.Contains(t, messages, "cron: start")
	assert.Contains(t, messages, "cron: schedule")
}
