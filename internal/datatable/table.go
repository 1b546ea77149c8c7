// Package datatable merges behavior history, logs and raw marks into one
// row-oriented table and renders it as a grid.
package datatable

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Kind string

const (
	KindBehavior Kind = "Behavior"
	KindLog      Kind = "Log"
	KindMark     Kind = "Mark"
)

type Field string

const (
	FieldType           Field = "type"
	FieldStudentID      Field = "studentId"
	FieldAccuracy       Field = "accuracy"
	FieldResponseTime   Field = "responseTime"
	FieldMarks          Field = "marks"
	FieldCluster        Field = "cluster"
	FieldRecommendation Field = "recommendation"
	FieldDate           Field = "date"
)

// CanonicalOrder 固定的列顺序
var CanonicalOrder = []Field{
	FieldType,
	FieldStudentID,
	FieldAccuracy,
	FieldResponseTime,
	FieldMarks,
	FieldCluster,
	FieldRecommendation,
	FieldDate,
}

var headerLabels = map[Field]string{
	FieldType:           "Type",
	FieldStudentID:      "Student ID",
	FieldAccuracy:       "Accuracy(%)",
	FieldResponseTime:   "Response Time(s)",
	FieldMarks:          "Marks",
	FieldCluster:        "Cluster",
	FieldRecommendation: "Recommendation",
	FieldDate:           "Date",
}

// kindFields 每类记录固定贡献的列
var kindFields = map[Kind][]Field{
	KindBehavior: {FieldType, FieldStudentID, FieldAccuracy, FieldResponseTime, FieldCluster, FieldRecommendation, FieldDate},
	KindLog:      {FieldType, FieldStudentID, FieldResponseTime, FieldMarks, FieldDate},
	KindMark:     {FieldType, FieldMarks, FieldDate},
}

const Placeholder = "-"

func HeaderLabel(f Field) string {
	return headerLabels[f]
}

func FieldsOf(k Kind) []Field {
	return slices.Clone(kindFields[k])
}

// Row 只携带本类记录有意义的字段，nil 表示缺省
type Row struct {
	Kind           Kind     `json:"type"`
	StudentID      *string  `json:"studentId,omitempty"`
	Accuracy       *string  `json:"accuracy,omitempty"`
	ResponseTime   *string  `json:"responseTime,omitempty"`
	Marks          *float64 `json:"marks,omitempty"`
	Cluster        *string  `json:"cluster,omitempty"`
	Recommendation *string  `json:"recommendation,omitempty"`
	Date           *string  `json:"date,omitempty"`
}

// Value 返回字段的展示值，第二个返回值表示该字段是否存在
func (r Row) Value(f Field) (string, bool) {
	var p *string
	switch f {
	case FieldType:
		return string(r.Kind), r.Kind != ""
	case FieldStudentID:
		p = r.StudentID
	case FieldAccuracy:
		p = r.Accuracy
	case FieldResponseTime:
		p = r.ResponseTime
	case FieldMarks:
		if r.Marks == nil {
			return "", false
		}
		return strconv.FormatFloat(*r.Marks, 'f', -1, 64), true
	case FieldCluster:
		p = r.Cluster
	case FieldRecommendation:
		p = r.Recommendation
	case FieldDate:
		p = r.Date
	}
	if p == nil {
		return "", false
	}
	return *p, true
}

func (r Row) sortKey() string {
	if r.StudentID == nil {
		return ""
	}
	return *r.StudentID
}

type Table struct {
	Columns []Field `json:"columns"`
	Rows    []Row   `json:"rows"`
}

// Builder 持有格式化参数，本身无可变状态，可并发使用
type Builder struct {
	DateLayout string
	Location   *time.Location
	Now        func() time.Time
}

func NewBuilder(dateLayout string, loc *time.Location) *Builder {
	if dateLayout == "" {
		dateLayout = "2006-01-02"
	}
	if loc == nil {
		loc = time.Local
	}
	return &Builder{DateLayout: dateLayout, Location: loc, Now: time.Now}
}

// Build 每次调用都从头重建整张表，不修改 in
func (b *Builder) Build(in Input) Table {
	now := b.Now()
	rows := make([]Row, 0, len(in.BehaviorHistory)+len(in.Logs)+len(in.Marks))
	present := make(map[Kind]bool, 3)

	for _, rec := range in.BehaviorHistory {
		rows = append(rows, b.behaviorRow(rec))
		present[KindBehavior] = true
	}
	for _, rec := range in.Logs {
		rows = append(rows, b.logRow(rec))
		present[KindLog] = true
	}
	for _, rec := range in.Marks {
		rows = append(rows, b.markRow(rec, now))
		present[KindMark] = true
	}

	slices.SortStableFunc(rows, func(a, c Row) int {
		return strings.Compare(a.sortKey(), c.sortKey())
	})

	return Table{Columns: activeColumns(present), Rows: rows}
}

func activeColumns(present map[Kind]bool) []Field {
	seen := make(map[Field]bool, len(CanonicalOrder))
	for kind, ok := range present {
		if !ok {
			continue
		}
		for _, f := range kindFields[kind] {
			seen[f] = true
		}
	}

	columns := make([]Field, 0, len(seen))
	for _, f := range CanonicalOrder {
		if seen[f] {
			columns = append(columns, f)
		}
	}
	return columns
}

func (b *Builder) behaviorRow(rec BehaviorRecord) Row {
	row := Row{
		Kind:           KindBehavior,
		StudentID:      nonEmpty(rec.StudentID),
		Recommendation: nonEmpty(rec.Recommendation),
		Date:           b.date(rec.RecordedAt),
	}
	if rec.Accuracy.Valid {
		row.Accuracy = str(fmt.Sprintf("%.1f", rec.Accuracy.Value*100))
	}
	if rec.AvgResponseTime.Valid {
		row.ResponseTime = str(fmt.Sprintf("%.1f", rec.AvgResponseTime.Value))
	}
	if rec.Cluster.Valid {
		row.Cluster = nonEmpty(rec.Cluster.Value)
	}
	return row
}

func (b *Builder) logRow(rec LogRecord) Row {
	row := Row{
		Kind:      KindLog,
		StudentID: nonEmpty(rec.StudentID),
		Date:      b.date(rec.LoggedAt),
	}
	if rec.ResponseTime.Valid {
		row.ResponseTime = str(fmt.Sprintf("%.1f", rec.ResponseTime.Value))
	}
	if rec.Marks.Valid {
		v := rec.Marks.Value
		row.Marks = &v
	}
	return row
}

// markRow 原始分数没有时间戳，日期取构建时刻
func (b *Builder) markRow(rec MarkRecord, now time.Time) Row {
	row := Row{
		Kind: KindMark,
		Date: str(now.In(b.Location).Format(b.DateLayout)),
	}
	if rec.Marks.Valid {
		v := rec.Marks.Value
		row.Marks = &v
	}
	return row
}

func (b *Builder) date(ts Timestamp) *string {
	if !ts.Valid {
		return nil
	}
	return str(ts.Time.In(b.Location).Format(b.DateLayout))
}

func str(s string) *string {
	return &s
}

func nonEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
