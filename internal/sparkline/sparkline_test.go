package sparkline

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderEmpty(t *testing.T) {
	for _, size := range [][2]float64{{90, 14}, {3, 3}, {1, 1}, {200, 40}} {
		p := Render(nil, size[0], size[1])
		assert.True(t, p.Empty())
		assert.Equal(t, "", p.String())
		assert.Equal(t, "", Render([]float64{}, size[0], size[1]).String())
	}
}

func TestRenderSingleSample(t *testing.T) {
	for _, v := range []float64{0, -3.5, 42, 1e9} {
		p := RenderDefault([]float64{v})
		assert.Equal(t, "M45,7 L45,7", p.String(), "value %v", v)
	}
}

func TestRenderSingleSampleTinyCanvas(t *testing.T) {
	for _, size := range [][2]float64{{2, 2}, {1, 1}, {0.5, 0.5}} {
		p := Render([]float64{7}, size[0], size[1])
		require.Len(t, p, 2)
		for _, pt := range p.Points() {
			assert.False(t, math.IsNaN(pt.X) || math.IsNaN(pt.Y), "NaN at %v", size)
		}
	}
}

func TestRenderTwoSamplesIsStraightLine(t *testing.T) {
	p := RenderDefault([]float64{3, 7})
	assert.Equal(t, "M1,13 L89,1", p.String())
	require.Len(t, p, 2)
	assert.Equal(t, MoveTo, p[0].Op)
	assert.Equal(t, LineTo, p[1].Op)
	assert.NotContains(t, p.String(), "C")
}

func TestRenderFlatSeries(t *testing.T) {
	for _, h := range []float64{14, 9, 30} {
		p := Render([]float64{5, 5, 5, 5}, 90, h)
		want := math.Floor(0.5*(h-2)+0.5) + 1
		for _, seg := range p {
			for _, pt := range seg.Pts {
				assert.Equal(t, want, pt.Y, "h=%v", h)
			}
		}
	}
	for _, n := range Normalize([]float64{5, 5, 5, 5}) {
		assert.Equal(t, 0.5, n)
	}
}

func TestRenderCubicPath(t *testing.T) {
	p := RenderDefault([]float64{1, 2, 3, 4, 5})
	want := "M1,13" +
		" C4.67,12.5 15.67,11 23,10" +
		" C30.33,9 37.67,8 45,7" +
		" C52.33,6 59.67,5 67,4" +
		" C74.33,3 85.33,1.5 89,1"
	if diff := cmp.Diff(want, p.String()); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderAnchorX(t *testing.T) {
	pts := RenderDefault([]float64{1, 2, 3, 4, 5}).Points()
	require.Len(t, pts, 5)
	assert.Equal(t, 1.0, pts[0].X)
	assert.Equal(t, 89.0, pts[len(pts)-1].X)
	for i := 1; i < len(pts); i++ {
		assert.Greater(t, pts[i].X, pts[i-1].X)
	}
}

func TestRenderSnapsBeforeInterpolating(t *testing.T) {
	// Control points come from the snapped anchors, so every anchor is integral.
	p := Render([]float64{0.3, 9.1, 2.2, 7.7, 1.05}, 37, 11)
	for _, pt := range p.Points() {
		assert.Equal(t, math.Trunc(pt.X), pt.X)
		assert.Equal(t, math.Trunc(pt.Y), pt.Y)
	}
}

func TestRenderIdempotent(t *testing.T) {
	data := []float64{4, 8, 15, 16, 23, 42}
	a := Render(data, 120, 20).String()
	b := Render(data, 120, 20).String()
	assert.Equal(t, a, b)
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	data := []float64{3, 1, 2}
	Render(data, 90, 14)
	assert.Equal(t, []float64{3, 1, 2}, data)
}

func TestRenderBoundaryContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		n := 1 + rng.Intn(60)
		data := make([]float64, n)
		for i := range data {
			data[i] = rng.NormFloat64() * 1000
		}
		w := float64(3 + rng.Intn(150))
		h := float64(3 + rng.Intn(40))

		p := Render(data, w, h)
		for _, seg := range p {
			for _, pt := range seg.Pts {
				require.GreaterOrEqual(t, pt.X, 1.0, "trial %d", trial)
				require.LessOrEqual(t, pt.X, w-1, "trial %d", trial)
				require.GreaterOrEqual(t, pt.Y, 1.0, "trial %d", trial)
				require.LessOrEqual(t, pt.Y, h-1, "trial %d", trial)
			}
		}
	}
}

func TestRenderMonotonicX(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		n := 2 + rng.Intn(80)
		data := make([]float64, n)
		for i := range data {
			data[i] = rng.Float64()
		}
		pts := Render(data, float64(3+rng.Intn(100)), 14).Points()
		for i := 1; i < len(pts); i++ {
			require.GreaterOrEqual(t, pts[i].X, pts[i-1].X)
		}
	}
}

func TestRenderSegmentShapes(t *testing.T) {
	p := RenderDefault([]float64{9, 1, 5, 3})
	require.Len(t, p, 4)
	assert.Equal(t, MoveTo, p[0].Op)
	for _, seg := range p[1:] {
		assert.Equal(t, CurveTo, seg.Op)
		assert.Len(t, seg.Pts, 3)
	}
}

func TestRenderConcurrent(t *testing.T) {
	data := []float64{2, 9, 4, 7, 1, 8}
	want := RenderDefault(data).String()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := RenderDefault(data).String(); got != want {
					t.Errorf("concurrent render diverged: %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Equal(t, []float64{0, 0.5, 1}, Normalize([]float64{10, 15, 20}))
	assert.Equal(t, []float64{1, 0}, Normalize([]float64{-1, -2}))
}

func TestSnapCentersLoneSample(t *testing.T) {
	pts := Snap([]float64{0.5}, 90, 14)
	assert.Equal(t, []Point{{X: 45, Y: 7}}, pts)
}

func TestFlatten(t *testing.T) {
	p := RenderDefault([]float64{1, 5, 2})
	poly := p.Flatten(8)
	require.Len(t, poly, 1+2*8)
	assert.Equal(t, p[0].Pts[0], poly[0])
	last := p.Points()[len(p.Points())-1]
	assert.InDelta(t, last.X, poly[len(poly)-1].X, 1e-9)
	assert.InDelta(t, last.Y, poly[len(poly)-1].Y, 1e-9)

	assert.Len(t, RenderDefault([]float64{1, 2}).Flatten(0), 2)
	assert.Empty(t, Path(nil).Flatten(4))
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{13, "13"},
		{12.5, "12.5"},
		{4.666666, "4.67"},
		{-0.001, "0"},
		{1.005, "1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCoord(tt.in), "formatCoord(%v)", tt.in)
	}
}

func TestSVG(t *testing.T) {
	doc := SVG(RenderDefault([]float64{3, 7}), DefaultSVGOptions())
	assert.True(t, strings.HasPrefix(doc, `<svg xmlns="http://www.w3.org/2000/svg" width="90" height="14" viewBox="0 0 90 14">`))
	assert.Contains(t, doc, `d="M1,13 L89,1"`)
	assert.Contains(t, doc, `stroke="currentColor"`)
	assert.True(t, strings.HasSuffix(doc, "</svg>"))

	empty := SVG(nil, SVGOptions{Width: 10, Height: 4, Title: "a<b"})
	assert.NotContains(t, empty, "<path")
	assert.Contains(t, empty, "<title>a&lt;b</title>")
}
