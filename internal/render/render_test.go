package render

import (
	"errors"
	"testing"

	"github.com/coreman2200/funtimes-sketchpad/internal/random"
)

func TestMixCrossfades(t *testing.T) {
	a := NewFrame(3, 2)
	a.Fill(Color{1, 0, 0})
	b := NewFrame(3, 2)
	b.Fill(Color{0, 0, 1})
	dst := NewFrame(3, 2)

	Mix(dst, a, b, 0.5)
	if c := dst.Pix[4]; abs32(c.R-0.5) > 1e-6 || abs32(c.B-0.5) > 1e-6 {
		t.Fatalf("expected purple halfway, got %#v", c)
	}
	Mix(dst, a, b, 1.2)
	if dst.Pix[0] != b.Pix[0] {
		t.Fatalf("expected blue past alpha=1, got %#v", dst.Pix[0])
	}
	Mix(dst, a, b, -1)
	if dst.Pix[5] != a.Pix[5] {
		t.Fatalf("expected red before alpha=0, got %#v", dst.Pix[5])
	}
}

func TestWipe(t *testing.T) {
	a := NewFrame(4, 1)
	b := NewFrame(4, 1)
	b.Fill(White)
	dst := NewFrame(4, 1)

	Wipe(dst, a, b, 0.5, false)
	want := []Color{White, White, Black, Black}
	for i, c := range want {
		if dst.Pix[i] != c {
			t.Fatalf("forward wipe px %d: got %#v", i, dst.Pix[i])
		}
	}
	Wipe(dst, a, b, 0.25, true)
	want = []Color{Black, Black, Black, White}
	for i, c := range want {
		if dst.Pix[i] != c {
			t.Fatalf("reverse wipe px %d: got %#v", i, dst.Pix[i])
		}
	}
}

func TestLimiterBudgetClamp(t *testing.T) {
	f := NewFrame(10, 1)
	f.Fill(White)
	// pre-limit current would be 10 * 60 = 600 mA
	Limiter{ChanMilliAmps: 20, BudgetMilliAmps: 300, WhiteCap: 3.0, Knee: 0.9}.Apply(f)
	if cur := EstimateMilliAmps(f.Pix, 20); cur > 300.1 {
		t.Fatalf("expected <= 300mA after limit, got %.2f mA", cur)
	}
}

func TestLimiterUnderKneeUntouched(t *testing.T) {
	f := NewFrame(1, 1)
	f.Fill(Color{0.5, 0, 0})
	Limiter{BudgetMilliAmps: 1000}.Apply(f)
	if f.Pix[0].R != 0.5 {
		t.Fatalf("expected untouched pixel, got %#v", f.Pix[0])
	}
}

func TestWhiteCap(t *testing.T) {
	f := NewFrame(1, 1)
	f.Fill(White) // sum=3
	Limiter{WhiteCap: 1.5}.Apply(f)
	if sum := f.Pix[0].R + f.Pix[0].G + f.Pix[0].B; sum > 1.5001 {
		t.Fatalf("expected sum <= 1.5, got %f", sum)
	}
}

func TestToneMapClampsAndOrders(t *testing.T) {
	f := NewFrame(3, 1)
	f.Pix[0] = Color{0, 0, 0}
	f.Pix[1] = Color{0.5, 0.5, 0.5}
	f.Pix[2] = Color{8, 8, 8}
	ToneMap{}.Apply(f)
	if f.Pix[0].R != 0 {
		t.Fatalf("black should stay black, got %#v", f.Pix[0])
	}
	if !(f.Pix[1].R > 0 && f.Pix[1].R < f.Pix[2].R && f.Pix[2].R <= 1) {
		t.Fatalf("tone curve not monotonic/clamped: %#v", f.Pix)
	}
}

func TestRadialBlurKeepsFlatFrame(t *testing.T) {
	f := NewFrame(8, 8)
	f.Fill(Color{0.25, 0.5, 0.75})
	(&RadialBlur{CenterX: 0.5, CenterY: 0.5, Strength: 0.5, Samples: 4}).Apply(f)
	for i, c := range f.Pix {
		if abs32(c.R-0.25) > 1e-6 || abs32(c.B-0.75) > 1e-6 {
			t.Fatalf("px %d changed: %#v", i, c)
		}
	}
}

func TestRadialBlurSmearsTowardCenter(t *testing.T) {
	f := NewFrame(5, 1)
	f.Pix[2] = White // center
	(&RadialBlur{CenterX: 0.5, CenterY: 0, Strength: 1, Samples: 3}).Apply(f)
	if f.Pix[0].R <= 0 {
		t.Fatalf("edge pixel should pick up center light, got %#v", f.Pix[0])
	}
	if abs32(f.Pix[2].R-1) > 1e-6 {
		t.Fatalf("center should be unchanged, got %#v", f.Pix[2])
	}
}

func TestBloomSpreadsBrightPixels(t *testing.T) {
	f := NewFrame(5, 5)
	f.Set(2, 2, White)
	(&Bloom{Strength: 1, Threshold: 0.5, Radius: 1}).Apply(f)

	if got := f.At(2, 2).R; abs32(got-(1+1.0/9)) > 1e-6 {
		t.Fatalf("center should gain a ninth, got %f", got)
	}
	if got := f.At(1, 2).G; abs32(got-1.0/9) > 1e-6 {
		t.Fatalf("neighbour should glow, got %f", got)
	}
	if f.At(0, 0) != Black {
		t.Fatalf("corner is outside the radius, got %#v", f.At(0, 0))
	}
}

func TestBloomSkipsDimFrames(t *testing.T) {
	f := NewFrame(4, 4)
	f.Fill(Color{0.2, 0.2, 0.2})
	(&Bloom{Strength: 1, Threshold: 0.5}).Apply(f)
	(&Bloom{Strength: 0, Threshold: 0}).Apply(f)
	for i, c := range f.Pix {
		if c != (Color{0.2, 0.2, 0.2}) {
			t.Fatalf("px %d changed: %#v", i, c)
		}
	}
}

func TestBloomDitherIsSeeded(t *testing.T) {
	a := NewFrame(4, 1)
	b := NewFrame(4, 1)
	a.Fill(Color{0.5, 0.5, 0.5})
	b.Fill(Color{0.5, 0.5, 0.5})
	(&Bloom{Strength: 0.1, Threshold: 1, Dither: 1, Rand: random.New(5)}).Apply(a)
	(&Bloom{Strength: 0.1, Threshold: 1, Dither: 1, Rand: random.New(5)}).Apply(b)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("px %d differs across equal seeds", i)
		}
		if d := abs32(a.Pix[i].R - 0.5); d > 1.0/255+1e-6 {
			t.Fatalf("px %d dithered too far: %f", i, d)
		}
	}
}

func TestEffectsOrderAndReplace(t *testing.T) {
	var order []string
	pass := func(name string) Pass {
		return PassFunc(func(*Frame) { order = append(order, name) })
	}
	e := NewEffects()
	e.Add("tone", pass("tone"))
	e.Add("blur", pass("blur"))
	e.Add("limit", pass("limit"))
	e.Add("tone", pass("tone2"))
	e.Add("nil", nil)

	if !e.Has("blur") || e.Has("nil") || e.Len() != 3 {
		t.Fatalf("unexpected membership: %v", e.Names())
	}
	if !e.Remove("blur") || e.Remove("blur") {
		t.Fatalf("remove should succeed exactly once")
	}
	e.Apply(NewFrame(1, 1))
	if len(order) != 2 || order[0] != "tone2" || order[1] != "limit" {
		t.Fatalf("unexpected order %v", order)
	}
	if _, ok := e.Get("limit"); !ok {
		t.Fatalf("limit missing")
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff8000")
	if err != nil || c.R != 1 || c.B != 0 || c.G < 0.5 || c.G > 0.51 {
		t.Fatalf("got %#v, %v", c, err)
	}
	if c.Hex() != "#ff8000" {
		t.Fatalf("hex round trip: %s", c.Hex())
	}
	short, err := ParseHex("0f0")
	if err != nil || short != (Color{0, 1, 0}) {
		t.Fatalf("short form: %#v, %v", short, err)
	}
	for _, bad := range []string{"", "#12", "#gggggg", "#1234567"} {
		if _, err := ParseHex(bad); !errors.Is(err, ErrBadColor) {
			t.Fatalf("%q: expected ErrBadColor, got %v", bad, err)
		}
	}
}

func TestFrameHelpers(t *testing.T) {
	f := NewFrame(2, 2)
	f.Set(1, 1, White)
	f.Set(5, 5, White)
	if f.At(9, 9) != White || f.At(-1, -1) != Black {
		t.Fatalf("At should clamp")
	}
	if avg := f.Average(); avg.R != 0.25 {
		t.Fatalf("average: %#v", avg)
	}
	rgb := f.RGB()
	if len(rgb) != 12 || rgb[9] != 255 {
		t.Fatalf("rgb: %v", rgb)
	}
	img := f.Image()
	if img.Bounds().Dx() != 2 || img.RGBAAt(1, 1).G != 255 {
		t.Fatalf("image: %v", img.Bounds())
	}
	f.Resize(1, 1)
	if f.Len() != 1 || f.Pix[0] != Black {
		t.Fatalf("resize should shrink and clear")
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
