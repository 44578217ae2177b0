package log

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// consoleLogFormatter wraps another formatter, appending any objects
// logged under the "objects" field as space-separated JSON after the
// base-formatted line. Objects that fail to marshal (channels, funcs) are
// dropped rather than aborting the whole line.
type consoleLogFormatter struct {
	logrus.Formatter
}

// Format implements logrus.Formatter.
func (f *consoleLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	out, err := f.Formatter.Format(entry)
	if err != nil {
		return nil, err
	}

	objects, ok := entry.Data["objects"].([]interface{})
	if !ok || len(objects) == 0 {
		return out, nil
	}

	parts := make([]string, 0, len(objects))
	for _, obj := range objects {
		b, err := json.Marshal(obj)
		if err != nil {
			continue
		}
		parts = append(parts, string(b))
	}
	joined := strings.Join(parts, " ")

	line := strings.TrimRight(string(out), "\n")
	if line == "" {
		line = joined
	} else if joined != "" {
		line = line + " " + joined
	}
	return []byte(line), nil
}

// LogstashJSONFormatter formats entries for ingestion by a Logstash
// json_lines codec: data fields are flattened into the top-level object.
// A data "message" field is also copied to fields.message and the
// top-level message is the entry's own; a data "level" field is also
// copied to fields.level, and the entry's level is written as level_name.
type LogstashJSONFormatter struct{}

// Format implements logrus.Formatter.
func (f *LogstashJSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	e := make(map[string]interface{}, len(entry.Data)+4)
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			e[k] = err.Error()
		} else {
			e[k] = v
		}
	}

	e["@timestamp"] = entry.Time.Format(time.RFC3339)
	e["@version"] = "1"

	if v, ok := entry.Data["message"]; ok {
		e["fields.message"] = v
	}
	e["message"] = entry.Message

	if v, ok := entry.Data["level"]; ok {
		e["fields.level"] = v
	}
	e["level_name"] = entry.Level.String()

	serialised, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return append(serialised, '\n'), nil
}
