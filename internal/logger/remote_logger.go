package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

var (
	httpClient = &http.Client{Timeout: 5 * time.Second}

	remoteMu  sync.RWMutex
	remoteURI string
	remoteJob = "product-stock"
)

// SetRemote enables pushing every record to a Loki compatible endpoint.
// An empty uri disables pushing.
func SetRemote(uri, job string) {
	remoteMu.Lock()
	defer remoteMu.Unlock()
	remoteURI = uri
	if job != "" {
		remoteJob = job
	}
}

func remoteTarget() (string, string) {
	remoteMu.RLock()
	defer remoteMu.RUnlock()
	return remoteURI, remoteJob
}

// buildLogEntry creates a Loki push payload holding a single line.
func buildLogEntry(job, level, message string, attrs []slog.Attr) map[string]interface{} {
	return map[string]interface{}{
		"streams": []map[string]interface{}{
			{
				"stream": map[string]string{
					"level": level,
					"job":   job,
				},
				"values": [][]string{
					{
						fmt.Sprintf("%d", time.Now().UnixNano()),
						buildLogLine(level, message, attrs),
					},
				},
			},
		},
	}
}

func buildLogLine(level, message string, attrs []slog.Attr) string {
	logData := map[string]interface{}{
		"level":   level,
		"message": message,
		"time":    time.Now().Format(time.RFC3339),
	}
	for _, attr := range attrs {
		logData[attr.Key] = attrValue(attr.Value)
	}

	jsonBytes, _ := json.Marshal(logData)
	return string(jsonBytes)
}

// attrValue turns slog groups into nested maps so they marshal as objects.
func attrValue(v slog.Value) any {
	v = v.Resolve()
	if v.Kind() != slog.KindGroup {
		return v.Any()
	}
	m := make(map[string]any, len(v.Group()))
	for _, a := range v.Group() {
		m[a.Key] = attrValue(a.Value)
	}
	return m
}

func push(uri, job, level, message string, attrs []slog.Attr) error {
	jsonData, err := json.Marshal(buildLogEntry(job, level, message, attrs))
	if err != nil {
		return fmt.Errorf("marshal remote log entry: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, uri, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("create remote log request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send remote log: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("remote log returned status %d", resp.StatusCode)
	}
	return nil
}

// sendLog pushes in the background; failures go to stderr only.
func sendLog(level, message string, attrs []slog.Attr) {
	uri, job := remoteTarget()
	if uri == "" {
		return
	}
	go func() {
		if err := push(uri, job, level, message, attrs); err != nil {
			fmt.Fprintf(os.Stderr, "remote log: %v\n", err)
		}
	}()
}
