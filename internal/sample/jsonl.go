package sample

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wexeljose/perfgate/internal/analyzer"
)

// Accepted field aliases, checked in order. Harnesses disagree on naming;
// covering the common spellings keeps their exports ingestible as-is.
var (
	timestampFields = []string{"timestamp", "timestamp_ms", "ts"}
	elapsedFields   = []string{"elapsed", "elapsed_ms", "latency_ms", "duration_ms"}
	successFields   = []string{"success", "ok"}
	labelFields     = []string{"label", "endpoint", "name"}
)

// ReadJSONL reads samples from a JSON-lines stream, one object per line.
// Blank lines are ignored; lines missing a parsable timestamp, elapsed time,
// or success flag count as malformed.
func ReadJSONL(r io.Reader) (analyzer.Set, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	set := analyzer.Set{}
	sawLine := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sawLine = true

		s, ok := parseJSONLine(line)
		if !ok {
			set.Malformed++
			continue
		}
		set.Samples = append(set.Samples, s)
	}
	if err := scanner.Err(); err != nil {
		return analyzer.Set{}, fmt.Errorf("read JSONL: %w", err)
	}
	if !sawLine {
		return analyzer.Set{}, fmt.Errorf("JSONL input is empty")
	}
	return set, nil
}

func parseJSONLine(line string) (analyzer.Sample, bool) {
	if !gjson.Valid(line) {
		return analyzer.Sample{}, false
	}

	ts, ok := firstNumber(line, timestampFields)
	if !ok {
		return analyzer.Sample{}, false
	}
	elapsed, ok := firstNumber(line, elapsedFields)
	if !ok || elapsed < 0 {
		return analyzer.Sample{}, false
	}
	success, ok := firstBool(line, successFields)
	if !ok {
		return analyzer.Sample{}, false
	}

	s := analyzer.Sample{
		TimestampMS: int64(ts),
		ElapsedMS:   elapsed,
		Success:     success,
	}
	for _, field := range labelFields {
		if res := gjson.Get(line, field); res.Exists() {
			s.Label = res.String()
			break
		}
	}
	return s, true
}

func firstNumber(line string, fields []string) (float64, bool) {
	for _, field := range fields {
		res := gjson.Get(line, field)
		if !res.Exists() {
			continue
		}
		if res.Type == gjson.Number {
			return res.Float(), true
		}
		return 0, false
	}
	return 0, false
}

func firstBool(line string, fields []string) (bool, bool) {
	for _, field := range fields {
		res := gjson.Get(line, field)
		if !res.Exists() {
			continue
		}
		switch res.Type {
		case gjson.True:
			return true, true
		case gjson.False:
			return false, true
		default:
			return false, false
		}
	}
	return false, false
}
