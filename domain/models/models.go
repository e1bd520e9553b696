package models

import "time"

// Row is one record of a dataset keyed by column name.
// Values are string, float64, bool or nil.
type Row map[string]any

type ChartKind string

const (
	KindBar       ChartKind = "bar"
	KindLine      ChartKind = "line"
	KindPie       ChartKind = "pie"
	KindScatter   ChartKind = "scatter"
	KindBubble    ChartKind = "bubble"
	KindHistogram ChartKind = "histogram"
	KindTable     ChartKind = "table"
	KindDataTable ChartKind = "datatable"
	KindPivot     ChartKind = "pivot"
)

type Aggregation string

const (
	AggregationSum   Aggregation = "sum"
	AggregationCount Aggregation = "count"
)

// ChartConfig is the declarative description of a chart. Renderers treat it as read-only.
type ChartConfig struct {
	Type        ChartKind   `json:"type" yaml:"type"`
	Title       string      `json:"title" yaml:"title"`
	XAxis       string      `json:"xAxis,omitempty" yaml:"xAxis,omitempty"`
	YAxis       string      `json:"yAxis,omitempty" yaml:"yAxis,omitempty"`
	Series      []string    `json:"series,omitempty" yaml:"series,omitempty"`
	Colors      []string    `json:"colors,omitempty" yaml:"colors,omitempty"`
	ValueField  string      `json:"valueField,omitempty" yaml:"valueField,omitempty"`
	SizeAxis    string      `json:"sizeAxis,omitempty" yaml:"sizeAxis,omitempty"`
	LabelAxis   string      `json:"labelAxis,omitempty" yaml:"labelAxis,omitempty"`
	RowField    string      `json:"rowField,omitempty" yaml:"rowField,omitempty"`
	ColField    string      `json:"colField,omitempty" yaml:"colField,omitempty"`
	Aggregation Aggregation `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	Bins        int         `json:"bins,omitempty" yaml:"bins,omitempty"`
	Columns     []string    `json:"columns,omitempty" yaml:"columns,omitempty"`
	Width       int         `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int         `json:"height,omitempty" yaml:"height,omitempty"`
}

// WithType returns a copy of the config with only the chart kind replaced.
func (c ChartConfig) WithType(kind ChartKind) ChartConfig {
	c.Type = kind
	return c
}

// ChartData is what the query service returns and what the container renders.
type ChartData struct {
	ChartConfig ChartConfig `json:"chartConfig" yaml:"chartConfig"`
	Data        []Row       `json:"data" yaml:"data"`
	Summary     string      `json:"summary,omitempty" yaml:"summary,omitempty"`
}

type Column struct {
	Name string `json:"name"`
	Type string `json:"type"` // number, string, boolean
}

// Dataset keeps metadata and a small sample only; bulk rows never reach this table.
type Dataset struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"index;size:64" json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FileType    string    `gorm:"size:32" json:"fileType"`
	Columns     []Column  `gorm:"serializer:json" json:"columns"`
	SampleData  []Row     `gorm:"serializer:json" json:"sampleData"`
	RowCount    int       `json:"rowCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Chunk is one uploaded batch of parsed rows for an upload session.
type Chunk struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	SessionID  string    `gorm:"index:idx_chunk_session;size:64" json:"sessionId"`
	UserID     string    `gorm:"index:idx_chunk_session;size:64" json:"userId"`
	ChunkIndex int       `json:"chunkIndex"`
	Rows       []Row     `gorm:"serializer:json" json:"data"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (Chunk) TableName() string {
	return "dataset_chunks"
}

type Visualization struct {
	ID          string      `gorm:"primaryKey;size:36" json:"id"`
	UserID      string      `gorm:"index;size:64" json:"userId"`
	DatasetID   string      `gorm:"size:36" json:"datasetId,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ChartType   ChartKind   `gorm:"size:16" json:"chartType"`
	ChartConfig ChartConfig `gorm:"serializer:json" json:"chartConfig"`
	Data        []Row       `gorm:"serializer:json" json:"data"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
}

// FinalizeRequest closes a chunked upload session.
type FinalizeRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	FileType    string   `json:"fileType"`
	UserID      string   `json:"userId"`
	SessionID   string   `json:"sessionId"`
	TotalChunks int      `json:"totalChunks"`
	Headers     []string `json:"headers"`
}
