package render

import (
	"math"
	"testing"

	"github.com/aiminilabs0/pingponglab/src/viewport"
)

func TestAxisWindow_RoundsAutoscaledEndsOnly(t *testing.T) {
	win := viewport.Window{XMin: 12, XMax: 88, YMin: 3.2, YMax: 9.7}

	got := axisWindow(Frame{Window: win, Autoscaled: true})
	if got.XMin > 12 || got.XMax < 88 || got.YMin > 3.2 || got.YMax < 9.7 {
		t.Fatalf("rounded window %+v clips the data", got)
	}
	if math.Mod(got.XMin, 10) != 0 || math.Mod(got.XMax, 10) != 0 {
		t.Fatalf("autoscaled x ends [%v,%v] not rounded", got.XMin, got.XMax)
	}

	if got := axisWindow(Frame{Window: win}); got != win {
		t.Fatalf("user window altered: %+v", got)
	}
}

func TestNiceAxisBounds(t *testing.T) {
	a, b := niceAxisBounds(12, 88)
	if a > 12 || b < 88 {
		t.Fatalf("bounds [%v,%v] clip the data", a, b)
	}
	// rounded to the span's magnitude (10)
	if math.Mod(a, 10) != 0 || math.Mod(b, 10) != 0 {
		t.Fatalf("bounds [%v,%v] not rounded", a, b)
	}
}

func TestNiceAxisBounds_DegenerateSpan(t *testing.T) {
	a, b := niceAxisBounds(5, 5)
	if b <= a {
		t.Fatalf("degenerate span produced non-window [%v,%v]", a, b)
	}
}

func TestNiceTicks_CoverRangeOnRoundSteps(t *testing.T) {
	ticks := niceTicks(0, 100, 6)
	if len(ticks) < 2 {
		t.Fatalf("too few ticks: %d", len(ticks))
	}
	if ticks[0].Value > 0 || ticks[len(ticks)-1].Value < 100 {
		t.Fatalf("ticks [%v..%v] do not cover [0,100]", ticks[0].Value, ticks[len(ticks)-1].Value)
	}
	step := ticks[1].Value - ticks[0].Value
	for i := 1; i < len(ticks); i++ {
		if math.Abs((ticks[i].Value-ticks[i-1].Value)-step) > 1e-9 {
			t.Fatalf("uneven steps at %d", i)
		}
	}
}

func TestNiceTicks_BadInput(t *testing.T) {
	if got := niceTicks(0, 10, 1); got != nil {
		t.Fatalf("n<2 must yield nil")
	}
	if got := niceTicks(math.NaN(), 10, 5); got != nil {
		t.Fatalf("NaN min must yield nil")
	}
}

func TestFormatTick(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1500, "1500"},
		{25, "25"},
		{2.5, "2.5"},
		{2, "2"},
		{0.25, "0.25"},
	}
	for _, c := range cases {
		if got := formatTick(c.in); got != c.want {
			t.Errorf("formatTick(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
