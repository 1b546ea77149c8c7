package model

// StudentBehavior 按学生聚合后的行为指标
type StudentBehavior struct {
	StudentID       string  `json:"student_id"`
	AvgResponseTime float64 `json:"avg_response_time"`
	AvgAttempts     float64 `json:"avg_attempts"`
	Accuracy        float64 `json:"accuracy"`
	Cluster         int     `json:"cluster"`
	Recommendation  string  `json:"recommendation"`
}

// AllData 对应 /all-data 的返回体
type AllData struct {
	BehaviorHistory []BehaviorSnapshot `json:"behavior_history"`
	Logs            []StudentLog       `json:"logs"`
	Marks           []MarkValue        `json:"marks"`
}

// MarkValue 以 {"marks": n} 形式输出
type MarkValue struct {
	Marks float64 `json:"marks"`
}

type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData 前端图表直接使用的数据结构
type ChartData struct {
	Kind     string         `json:"kind"`
	Title    string         `json:"title"`
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
	YMax     float64        `json:"yMax,omitempty"`
}
