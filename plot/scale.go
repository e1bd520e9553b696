package plot

import "math"

// Viewport is the pixel size a chart is laid out in.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Padding is the space kept between the viewport edge and the plot area.
type Padding struct {
	Top, Right, Bottom, Left float64
}

var (
	axisPadding      = Padding{Top: 40, Right: 20, Bottom: 40, Left: 50}
	histogramPadding = Padding{Top: 40, Right: 20, Bottom: 60, Left: 50}
)

const (
	tickCount   = 5
	slotFill    = 0.8
	defaultBins = 10
)

// MaxBins caps the configured bin count.
const MaxBins = 1000

// plotArea is the inner rectangle of a viewport after padding.
type plotArea struct {
	left, top     float64
	width, height float64
}

func newPlotArea(vp Viewport, p Padding) plotArea {
	return plotArea{
		left:   p.Left,
		top:    p.Top,
		width:  math.Max(vp.Width-p.Left-p.Right, 0),
		height: math.Max(vp.Height-p.Top-p.Bottom, 0),
	}
}

func (a plotArea) bottom() float64 { return a.top + a.height }
func (a plotArea) right() float64  { return a.left + a.width }

// Normalize maps v from [min, max] onto [0, extent]. A zero-width domain is treated
// as width 1, so every value lands at the same finite position.
func Normalize(v, min, max, extent float64) float64 {
	span := max - min
	if span == 0 {
		span = 1
	}
	return (v - min) / span * extent
}

// Ratio returns v/max, or 0 when max is 0.
func Ratio(v, max float64) float64 {
	if max == 0 {
		return 0
	}
	return v / max
}

// Slot is the horizontal placement of one category on a categorical axis.
type Slot struct {
	X     float64
	Width float64
}

// Center is the x coordinate of the middle of the slot.
func (s Slot) Center() float64 { return s.X + s.Width/2 }

// Slots splits extent into n categories. Each slot gets 80% of its share as bar width
// and 20% as spacing, half of the spacing on each side.
func Slots(n int, extent float64) []Slot {
	if n <= 0 {
		return nil
	}
	share := extent / float64(n)
	width := share * slotFill
	spacing := share - width
	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = Slot{X: float64(i)*(width+spacing) + spacing/2, Width: width}
	}
	return slots
}

// Tick is one axis tick: its data value and its offset along the axis.
type Tick struct {
	Value  float64
	Offset float64
}

// Ticks returns count+1 evenly spaced ticks from min to max, laid out over extent.
func Ticks(min, max, extent float64, count int) []Tick {
	if count <= 0 {
		count = tickCount
	}
	ticks := make([]Tick, count+1)
	for i := 0; i <= count; i++ {
		f := float64(i) / float64(count)
		ticks[i] = Tick{Value: min + f*(max-min), Offset: f * extent}
	}
	return ticks
}

// Bin is a histogram bucket. Start is inclusive; End is exclusive except for the last bin.
type Bin struct {
	Start float64
	End   float64
	Count int
}

// Histogram splits values into n bins of equal width between their min and max.
// The last bin is closed so the maximum is counted exactly once. When all values
// are equal every value falls into the last bin.
func Histogram(values []float64, n int) []Bin {
	if n <= 0 {
		n = defaultBins
	}
	if n > MaxBins {
		n = MaxBins
	}
	if len(values) == 0 {
		return nil
	}
	min, max := MinMax(values)
	width := (max - min) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Start = min + float64(i)*width
		bins[i].End = min + float64(i+1)*width
	}
	bins[n-1].End = max

	for _, v := range values {
		bins[binIndex(bins, v, min, width)].Count++
	}
	return bins
}

func binIndex(bins []Bin, v, min, width float64) int {
	last := len(bins) - 1
	if width == 0 {
		return last
	}
	i := int(math.Floor((v - min) / width))
	if i < 0 {
		i = 0
	}
	if i > last {
		i = last
	}
	for i > 0 && v < bins[i].Start {
		i--
	}
	for i < last && v >= bins[i+1].Start {
		i++
	}
	return i
}

// MinMax returns the smallest and largest of values, or 0, 0 for none.
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return min, max
}
