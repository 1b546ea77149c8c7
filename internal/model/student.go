package model

import (
	"time"
)

// StudentLog 一次答题记录
type StudentLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID    string    `gorm:"size:50;index;not null" json:"student_id"`
	ResponseTime float64   `gorm:"not null" json:"response_time"`
	Attempts     float64   `gorm:"default:1" json:"attempts"`
	Correct      float64   `gorm:"default:0" json:"correct"`
	Marks        *float64  `json:"marks"`
	LoggedAt     time.Time `gorm:"index;autoCreateTime" json:"logged_at"`
}

func (StudentLog) TableName() string {
	return "student_logs"
}

// BehaviorSnapshot 每次 /analyze 为每个学生写入的一条行为快照
type BehaviorSnapshot struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID       string    `gorm:"size:50;index:idx_student_recorded,priority:1" json:"student_id"`
	AvgResponseTime float64   `json:"avg_response_time"`
	AvgAttempts     float64   `json:"avg_attempts"`
	Accuracy        float64   `json:"accuracy"`
	Cluster         int       `json:"cluster"`
	Recommendation  string    `gorm:"size:255" json:"recommendation"`
	RecordedAt      time.Time `gorm:"index:idx_student_recorded,priority:2;autoCreateTime" json:"recorded_at"`
}

func (BehaviorSnapshot) TableName() string {
	return "student_behavior_history"
}
