package model

import (
	"fmt"
	"math"
	"sort"
)

// Assessment status values.
const (
	AssessmentDraft      = "draft"
	AssessmentInProgress = "in_progress"
	AssessmentCompleted  = "completed"
)

// Assessment is a summary row from GET /assessment/list.
type Assessment struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	Score       float64 `json:"score"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt string  `json:"completed_at,omitempty"`
}

// AssessmentPage is one page of assessments.
type AssessmentPage struct {
	Items      []Assessment `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateAssessmentRequest is the body of POST /assessment.
type CreateAssessmentRequest struct {
	Title    string `json:"title"`
	Template string `json:"template,omitempty"`
}

// DimensionScore is the score for one maturity dimension.
type DimensionScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// AssessmentResult is the scored outcome of a completed assessment.
type AssessmentResult struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	OverallScore    float64          `json:"overall_score"`
	Level           string           `json:"level"`
	Dimensions      []DimensionScore `json:"dimensions"`
	Recommendations []string         `json:"recommendations,omitempty"`
}

// Comparison is the server's side-by-side view of two assessments.
type Comparison struct {
	First  AssessmentResult `json:"first"`
	Second AssessmentResult `json:"second"`
}

// DimensionDelta is one row of a normalized comparison.
type DimensionDelta struct {
	Name   string
	First  float64
	Second float64
	Delta  float64
}

// Normalize aligns both sides on the union of dimension names, filling
// missing scores with zero, and returns rows sorted by name.
func (c Comparison) Normalize() []DimensionDelta {
	first := make(map[string]float64, len(c.First.Dimensions))
	second := make(map[string]float64, len(c.Second.Dimensions))
	names := make(map[string]struct{})

	for _, d := range c.First.Dimensions {
		first[d.Name] = d.Score
		names[d.Name] = struct{}{}
	}
	for _, d := range c.Second.Dimensions {
		second[d.Name] = d.Score
		names[d.Name] = struct{}{}
	}

	rows := make([]DimensionDelta, 0, len(names))
	for name := range names {
		a, b := first[name], second[name]
		rows = append(rows, DimensionDelta{
			Name:   name,
			First:  a,
			Second: b,
			Delta:  roundTo(b-a, 2),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// OverallDelta is the change in overall score from first to second.
func (c Comparison) OverallDelta() float64 {
	return roundTo(c.Second.OverallScore-c.First.OverallScore, 2)
}

// RadarColor maps a 0..100 score onto a red → amber → green gradient and
// returns it as a hex string. Out-of-range scores are clamped.
func RadarColor(score float64) string {
	red := [3]float64{0xef, 0x44, 0x44}
	amber := [3]float64{0xf5, 0x9e, 0x0b}
	green := [3]float64{0x22, 0xc5, 0x5e}

	if math.IsNaN(score) {
		score = 0
	}
	t := math.Max(0, math.Min(100, score)) / 100

	var from, to [3]float64
	if t < 0.5 {
		from, to, t = red, amber, t*2
	} else {
		from, to, t = amber, green, (t-0.5)*2
	}

	var rgb [3]int
	for i := range rgb {
		rgb[i] = int(math.Round(from[i] + (to[i]-from[i])*t))
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
