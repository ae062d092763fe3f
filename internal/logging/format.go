package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/backmassage/photosift/internal/term"
)

const timeLayout = "2006-01-02 15:04:05"

// lineFormatter renders "<ts> [TAG] <msg>\n", painting the tag when color
// is set. Colors are read at format time so term.Configure stays the single
// switch.
type lineFormatter struct {
	color bool
}

func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	tag, _ := e.Data[tagKey].(string)
	if tag == "" {
		tag = levelTag(e.Level)
	}
	label := "[" + tag + "]"
	if f.color {
		label = term.Paint(tagColor(tag), label)
	}
	line := e.Time.Format(timeLayout) + " " + label + " " + e.Message + "\n"
	return []byte(line), nil
}

func levelTag(level logrus.Level) string {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		return "ERROR"
	case logrus.WarnLevel:
		return "WARN"
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG"
	default:
		return "INFO"
	}
}

func tagColor(tag string) string {
	switch tag {
	case "SUCCESS":
		return term.Green
	case "SKIP":
		return term.Magenta
	case "WARN":
		return term.Yellow
	case "ERROR":
		return term.Red
	case "DEBUG":
		return term.Cyan
	default:
		return term.Blue
	}
}
