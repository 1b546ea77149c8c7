package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"student_insight/internal/model"
	"student_insight/internal/util"

	"github.com/google/uuid"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	ChartAccuracy  = "accuracy"
	ChartHistory   = "history"
	ChartHistogram = "histogram"
)

// 没有分析结果时的示例科目分数
var fallbackSubjects = []string{"Maths", "Physics", "DSA", "DBMS", "OS"}
var fallbackSubjectMarks = []float64{85, 78, 92, 88, 74}

const histogramBins = 10

var (
	colorPrimary = drawing.ColorFromHex("0d47a1")
	colorAccent  = drawing.ColorFromHex("c62828")
)

type ChartService struct {
	Analytics  *AnalyticsService
	Storage    *StorageService
	DateLayout string
	// Location 与数据表使用同一时区，保证日期一致
	Location *time.Location
	Width    int
	Height   int
	Now      func() time.Time
	Uniform  func() float64
}

func NewChartService(analytics *AnalyticsService, storage *StorageService, dateLayout string, loc *time.Location) *ChartService {
	if dateLayout == "" {
		dateLayout = util.DateFormat
	}
	if loc == nil {
		loc = time.Local
	}
	return &ChartService{
		Analytics:  analytics,
		Storage:    storage,
		DateLayout: dateLayout,
		Location:   loc,
		Width:      800,
		Height:     400,
		Now:        time.Now,
		Uniform:    rand.Float64,
	}
}

// Data 返回前端绘图用的数据，history 需要 studentID
func (s *ChartService) Data(ctx context.Context, kind, studentID string) (model.ChartData, error) {
	switch kind {
	case ChartAccuracy:
		behaviors, err := s.Analytics.Analyze(ctx)
		if err != nil {
			return model.ChartData{}, err
		}
		return AccuracyChart(behaviors), nil
	case ChartHistory:
		if studentID == "" {
			return model.ChartData{}, fmt.Errorf("history chart: %w", util.ErrStudentRequired)
		}
		rows, err := s.Analytics.History(ctx, studentID)
		if err != nil {
			return model.ChartData{}, err
		}
		return s.HistoryChart(rows), nil
	case ChartHistogram:
		marks, err := s.Analytics.Marks(ctx)
		if err != nil {
			return model.ChartData{}, err
		}
		return Histogram(marks), nil
	default:
		return model.ChartData{}, fmt.Errorf("%w: %q", util.ErrUnknownChart, kind)
	}
}

func AccuracyChart(behaviors []model.StudentBehavior) model.ChartData {
	data := model.ChartData{Kind: ChartAccuracy, Title: "Student Accuracy", YMax: 100}
	if len(behaviors) == 0 {
		data.Labels = append([]string(nil), fallbackSubjects...)
		data.Datasets = []model.ChartDataset{{Label: "Marks", Data: append([]float64(nil), fallbackSubjectMarks...)}}
		return data
	}
	values := make([]float64, len(behaviors))
	for i, b := range behaviors {
		data.Labels = append(data.Labels, "ID "+b.StudentID)
		values[i] = math.Round(b.Accuracy * 100)
	}
	data.Datasets = []model.ChartDataset{{Label: "Accuracy (%)", Data: values}}
	return data
}

// HistoryChart 历史为空时生成最近 5 天的示意数据
func (s *ChartService) HistoryChart(rows []model.BehaviorSnapshot) model.ChartData {
	if len(rows) == 0 {
		now := s.Now()
		for i := 5; i >= 1; i-- {
			rows = append(rows, model.BehaviorSnapshot{
				RecordedAt:      now.AddDate(0, 0, -i),
				Accuracy:        0.6 + s.Uniform()*0.3,
				AvgResponseTime: 15 + s.Uniform()*10,
			})
		}
	}

	data := model.ChartData{Kind: ChartHistory, Title: "Progress Over Time"}
	accuracy := make([]float64, len(rows))
	response := make([]float64, len(rows))
	for i, r := range rows {
		data.Labels = append(data.Labels, r.RecordedAt.In(s.Location).Format(s.DateLayout))
		accuracy[i] = r.Accuracy * 100
		response[i] = r.AvgResponseTime
	}
	data.Datasets = []model.ChartDataset{
		{Label: "Accuracy (%)", Data: accuracy},
		{Label: "Avg Response", Data: response},
	}
	return data
}

// Histogram 10 个宽度为 10 的区间，没有分数时不含任何区间
func Histogram(marks []float64) model.ChartData {
	data := model.ChartData{Kind: ChartHistogram, Title: "Marks Distribution", Labels: []string{}, Datasets: []model.ChartDataset{}}
	if len(marks) == 0 {
		return data
	}
	bins := make([]float64, histogramBins)
	for _, v := range marks {
		idx := int(math.Floor(v / 10))
		idx = max(0, min(histogramBins-1, idx))
		bins[idx]++
	}
	for i := range bins {
		data.Labels = append(data.Labels, fmt.Sprintf("%d-%d", i*10, (i+1)*10-1))
	}
	data.Datasets = []model.ChartDataset{{Label: "Students", Data: bins}}
	return data
}

// RenderPNG 没有数据集时返回 ErrNoChartData
func (s *ChartService) RenderPNG(data model.ChartData, w io.Writer) error {
	if len(data.Datasets) == 0 || len(data.Labels) == 0 {
		return util.ErrNoChartData
	}
	if data.Kind == ChartHistory {
		return s.renderLines(data, w)
	}
	return s.renderBars(data, w)
}

func (s *ChartService) renderBars(data model.ChartData, w io.Writer) error {
	series := data.Datasets[0]
	bars := make([]chart.Value, len(series.Data))
	top := data.YMax
	for i, v := range series.Data {
		bars[i] = chart.Value{
			Value: v,
			Label: data.Labels[i],
			Style: chart.Style{FillColor: colorPrimary, StrokeColor: colorPrimary},
		}
		top = math.Max(top, v)
	}
	if data.YMax == 0 {
		top = math.Ceil(top * 1.1)
	}

	bc := chart.BarChart{
		Title:      data.Title + " - " + series.Label,
		Width:      s.Width,
		Height:     s.Height,
		BarWidth:   max(8, s.Width/(2*len(bars)+1)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: math.Max(top, 1)}},
		Bars:       bars,
	}
	return bc.Render(chart.PNG, w)
}

func (s *ChartService) renderLines(data model.ChartData, w io.Writer) error {
	n := len(data.Labels)
	xs := make([]float64, n)
	// 两端各留半格空白刻度，X 轴范围由刻度决定，单点时也不会为零
	ticks := make([]chart.Tick, 0, n+2)
	ticks = append(ticks, chart.Tick{Value: -0.5})
	for i, label := range data.Labels {
		xs[i] = float64(i)
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: label})
	}
	ticks = append(ticks, chart.Tick{Value: float64(n) - 0.5})

	colors := []drawing.Color{colorPrimary, colorAccent}
	top := 1.0
	var series []chart.Series
	for i, ds := range data.Datasets {
		for _, v := range ds.Data {
			top = math.Max(top, v)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    ds.Label,
			XValues: xs,
			YValues: ds.Data,
			Style: chart.Style{
				StrokeColor: colors[i%len(colors)],
				StrokeWidth: 2,
				DotColor:    colors[i%len(colors)],
				DotWidth:    3,
			},
		})
	}

	ch := chart.Chart{
		Title:      data.Title,
		Width:      s.Width,
		Height:     s.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:  chart.XAxis{Ticks: ticks, Range: &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5}},
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: math.Ceil(top * 1.1)}},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}

// Export 渲染 PNG 并上传到对象存储，返回访问地址
func (s *ChartService) Export(ctx context.Context, kind, studentID string) (string, error) {
	data, err := s.Data(ctx, kind, studentID)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := s.RenderPNG(data, &buf); err != nil {
		return "", err
	}
	name := fmt.Sprintf("charts/%s-%s.png", kind, uuid.NewString())
	url, err := s.Storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()), int64(buf.Len()), util.MimePNG)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return url, nil
}
