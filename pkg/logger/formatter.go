package logger

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// TimestampLayout is the record timestamp layout.
const TimestampLayout = "2006-01-02 15:04:05"

// LineFormatter renders one record per line:
//
//	[2006-01-02 15:04:05] [LEVEL] message key=value ...
type LineFormatter struct{}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	b.WriteString(entry.Time.Format(TimestampLayout))
	b.WriteString("] [")
	b.WriteString(levelName(entry.Level))
	b.WriteString("] ")
	b.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
		}
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelName(level logrus.Level) string {
	if level == logrus.WarnLevel {
		return "WARN"
	}
	return strings.ToUpper(level.String())
}
