package datatable

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Input 是 /all-data 返回的三类集合，任意一类都可能缺省
type Input struct {
	BehaviorHistory []BehaviorRecord `json:"behavior_history"`
	Logs            []LogRecord      `json:"logs"`
	Marks           []MarkRecord     `json:"marks"`
}

type BehaviorRecord struct {
	StudentID       string    `json:"student_id"`
	Accuracy        Number    `json:"accuracy"`
	AvgResponseTime Number    `json:"avg_response_time"`
	AvgAttempts     Number    `json:"avg_attempts"`
	Cluster         Label     `json:"cluster"`
	Recommendation  string    `json:"recommendation"`
	RecordedAt      Timestamp `json:"recorded_at"`
}

type LogRecord struct {
	StudentID    string    `json:"student_id"`
	ResponseTime Number    `json:"response_time"`
	Marks        Number    `json:"marks"`
	LoggedAt     Timestamp `json:"logged_at"`
}

// MarkRecord 兼容裸数字和 {"marks": n} 两种写法
type MarkRecord struct {
	Marks Number
}

func (m *MarkRecord) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var wrapped struct {
			Marks Number `json:"marks"`
		}
		if err := json.Unmarshal(b, &wrapped); err != nil {
			return err
		}
		m.Marks = wrapped.Marks
		return nil
	}
	return m.Marks.UnmarshalJSON(b)
}

func (m MarkRecord) MarshalJSON() ([]byte, error) {
	return m.Marks.MarshalJSON()
}

// Number 是可缺省的数值，非数值内容视为缺省而不是解码错误
type Number struct {
	Value float64
	Valid bool
}

func NumberOf(v float64) Number {
	return Number{Value: v, Valid: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	*n = NumberOf(v)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Label 是聚类标签，来源可能是整数也可能是字符串
type Label struct {
	Value string
	Valid bool
}

func LabelOf(v string) Label {
	return Label{Value: v, Valid: true}
}

func (l *Label) UnmarshalJSON(b []byte) error {
	*l = Label{}
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	*l = LabelOf(s)
	return nil
}

func (l Label) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	if n, err := strconv.Atoi(l.Value); err == nil && strconv.Itoa(n) == l.Value {
		return []byte(l.Value), nil
	}
	return json.Marshal(l.Value)
}

// Timestamp 接受 RFC3339、无时区的 ISO 格式、MySQL DATETIME 以及 HTTP 日期格式
type Timestamp struct {
	Time  time.Time
	Valid bool
}

func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseTimestamp 无时区信息的时间按 loc 解析
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	*t = Timestamp{}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	if parsed, ok := ParseTimestamp(s, time.Local); ok {
		*t = TimestampOf(parsed)
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
