package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownKind is returned for chart types other than bar, line and pie.
var ErrUnknownKind = errors.New("chart type must be one of bar, line, pie")

// Kind is a chart type.
type Kind string

const (
	Bar  Kind = "bar"
	Line Kind = "line"
	Pie  Kind = "pie"
)

// ParseKind validates a user supplied chart type.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case Bar, Line, Pie:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// NoData labels the placeholder payload of an empty chart.
const NoData = "No Data"

const (
	placeholderFill   = "rgba(200, 200, 200, 0.2)"
	placeholderBorder = "rgba(200, 200, 200, 0.6)"
	lineBorder        = "#36a2eb"
	lineFill          = "rgba(54, 162, 235, 0.1)"
)

// Dataset is one series in the payload.
type Dataset struct {
	Label           string    `json:"label,omitempty"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	BorderColor     []string  `json:"borderColor,omitempty"`
	Fill            bool      `json:"fill,omitempty"`
}

// Payload is a renderer-neutral chart description.
type Payload struct {
	Type       Kind      `json:"type"`
	Labels     []string  `json:"labels"`
	Tooltips   []string  `json:"tooltips,omitempty"`
	Datasets   []Dataset `json:"datasets"`
	TotalHours float64   `json:"total_hours"`
	Empty      bool      `json:"empty,omitempty"`
}

// Build renders a single series. Pie charts get proportional labels and one
// colour per slice; bar charts one colour per bar; line charts a single
// stroke. A series without points yields the "No Data" placeholder.
func Build(kind Kind, s Series) Payload {
	if s.Len() == 0 {
		return Placeholder(kind)
	}
	p := Payload{
		Type:       kind,
		Labels:     s.Labels,
		Tooltips:   s.Tooltips,
		TotalHours: s.Total().InexactFloat64(),
	}
	ds := Dataset{Label: "Hours", Data: floats(s.Values)}
	switch kind {
	case Pie:
		p.Labels = ProportionalLabels(s)
		ds.Label = ""
		ds.BackgroundColor = Colors(s.Len())
	case Line:
		ds.BorderColor = []string{lineBorder}
		ds.BackgroundColor = []string{lineFill}
		ds.Fill = true
	default:
		ds.BackgroundColor = Colors(s.Len())
	}
	p.Datasets = []Dataset{ds}
	return p
}

// BuildStacked renders several series sharing one label axis, one colour
// per series. Pie charts cannot stack, so the series are summed per series
// name into a single pie instead.
func BuildStacked(kind Kind, series []Series) Payload {
	if len(series) == 0 || series[0].Len() == 0 {
		return Placeholder(kind)
	}
	if kind == Pie {
		sum := Series{Name: "Hours"}
		for _, s := range series {
			sum.Labels = append(sum.Labels, s.Name)
			sum.Values = append(sum.Values, s.Total())
		}
		return Build(Pie, sum)
	}

	colors := Colors(len(series))
	p := Payload{Type: kind, Labels: series[0].Labels, Tooltips: series[0].Tooltips}
	total := decimal.Zero
	for i, s := range series {
		total = total.Add(s.Total())
		ds := Dataset{Label: s.Name, Data: floats(s.Values), BackgroundColor: []string{colors[i]}}
		if kind == Line {
			ds.BorderColor = []string{colors[i]}
		}
		p.Datasets = append(p.Datasets, ds)
	}
	p.TotalHours = total.InexactFloat64()
	return p
}

// Placeholder is the payload drawn when there is nothing to chart.
func Placeholder(kind Kind) Payload {
	return Payload{
		Type:   kind,
		Labels: []string{NoData},
		Datasets: []Dataset{{
			Data:            []float64{1},
			BackgroundColor: []string{placeholderFill},
			BorderColor:     []string{placeholderBorder},
		}},
		Empty: true,
	}
}

// JSON encodes the payload.
func (p Payload) JSON() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal chart: %w", err)
	}
	return data, nil
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}
