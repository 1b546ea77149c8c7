package model

// AStarEdge 学习路径图中的一条无向边
type AStarEdge struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	NodeFrom string  `gorm:"size:100;not null;index" json:"from"`
	NodeTo   string  `gorm:"size:100;not null;index" json:"to"`
	Cost     float64 `gorm:"not null" json:"cost"`
}

func (AStarEdge) TableName() string {
	return "astar_edges"
}
