package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/HendryAvila/computor/internal/polynomial"
)

// Graph size limits.
const (
	DefaultGraphWidth  = 61
	DefaultGraphHeight = 21
	minGraphWidth      = 11
	minGraphHeight     = 5
	maxGraphSide       = 400
)

// Plot glyphs.
const (
	glyphCurve = '*'
	glyphRoot  = 'o'
	glyphXAxis = '-'
	glyphYAxis = '|'
	glyphOrig  = '+'
)

// Graph plots p as ASCII art. The horizontal window is centred on the real
// roots (or on the vertex / real part for quadratics without real roots) and
// the vertical range always includes y = 0 so the X axis is visible.
// result may be nil; when given, its real roots are marked on the axis.
// The last line gives the plotted ranges.
func Graph(p *polynomial.Polynomial, result *polynomial.SolutionResult, width, height int) string {
	if p == nil {
		return ""
	}
	width = clampSide(width, DefaultGraphWidth, minGraphWidth)
	height = clampSide(height, DefaultGraphHeight, minGraphHeight)

	xmin, xmax := graphWindow(p, result)
	xAt := func(col int) float64 {
		return xmin + (xmax-xmin)*float64(col)/float64(width-1)
	}

	ys := make([]float64, width)
	ymin, ymax := 0.0, 0.0
	for col := range ys {
		y := p.Eval(xAt(col))
		ys[col] = y
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		ymin = math.Min(ymin, y)
		ymax = math.Max(ymax, y)
	}
	if ymax-ymin < 1e-9 {
		ymin, ymax = ymin-1, ymax+1
	}

	rowOf := func(y float64) int {
		row := int(math.Round((ymax - y) / (ymax - ymin) * float64(height-1)))
		return max(0, min(row, height-1))
	}
	colOf := func(x float64) int {
		col := int(math.Round((x - xmin) / (xmax - xmin) * float64(width-1)))
		return max(0, min(col, width-1))
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	zeroRow := rowOf(0)
	for col := 0; col < width; col++ {
		grid[zeroRow][col] = glyphXAxis
	}
	if xmin <= 0 && xmax >= 0 {
		zeroCol := colOf(0)
		for row := 0; row < height; row++ {
			grid[row][zeroCol] = glyphYAxis
		}
		grid[zeroRow][zeroCol] = glyphOrig
	}

	for col, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		grid[rowOf(y)][col] = glyphCurve
	}
	if result != nil {
		for _, x := range result.RealSolutions {
			if x >= xmin && x <= xmax {
				grid[zeroRow][colOf(x)] = glyphRoot
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "x: [%s, %s]  y: [%s, %s]\n",
		formatAxis(xmin), formatAxis(xmax), formatAxis(ymin), formatAxis(ymax))
	return b.String()
}

// graphWindow picks the plotted x range: the points of interest padded by
// half their spread, at least 5 units on each side.
func graphWindow(p *polynomial.Polynomial, result *polynomial.SolutionResult) (float64, float64) {
	var points []float64
	if result != nil {
		points = append(points, result.RealSolutions...)
		for _, c := range result.ComplexSolutions {
			points = append(points, c.Real)
		}
	}
	if len(points) == 0 && p.Degree() == 2 {
		if vertex := -p.Coefficient(1) / (2 * p.Coefficient(2)); !math.IsInf(vertex, 0) && !math.IsNaN(vertex) {
			points = append(points, vertex)
		}
	}
	if len(points) == 0 {
		points = append(points, 0)
	}

	lo, hi := points[0], points[0]
	for _, x := range points[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	pad := math.Max((hi-lo)/2, 5)
	return lo - pad, hi + pad
}

func clampSide(v, def, lo int) int {
	switch {
	case v <= 0:
		return def
	case v < lo:
		return lo
	case v > maxGraphSide:
		return maxGraphSide
	}
	return v
}

func formatAxis(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
