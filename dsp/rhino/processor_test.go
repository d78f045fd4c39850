package rhino_test

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cwbudde/algo-rhino/dsp/amp"
	"github.com/cwbudde/algo-rhino/dsp/core"
	"github.com/cwbudde/algo-rhino/dsp/rhino"
	"github.com/cwbudde/algo-rhino/dsp/unit"
	"github.com/cwbudde/algo-rhino/internal/testutil"
)

type harness struct {
	g     *rhino.GuitarProcessor
	fake  *testutil.FakeUnit
	queue *unit.Queue
	logs  *bytes.Buffer
}

func newHarness(t *testing.T, fake *testutil.FakeUnit, input unit.Node, opts ...rhino.Option) *harness {
	t.Helper()

	reg := unit.NewRegistry()
	if fake != nil {
		reg.MustRegister(unit.Description{Code: rhino.ComponentCode, Name: "fake"}, fake.Factory())
	}

	q := unit.NewQueue(16)
	q.Start()
	t.Cleanup(q.Close)

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	opts = append([]rhino.Option{
		rhino.WithRegistry(reg),
		rhino.WithQueue(q),
		rhino.WithLogger(logger),
	}, opts...)

	return &harness{g: rhino.New(input, opts...), fake: fake, queue: q, logs: logs}
}

func writesFor(ws []testutil.Write, key string) []float32 {
	var out []float32
	for _, w := range ws {
		if w.Key == key {
			out = append(out, w.Value)
		}
	}
	return out
}

func TestNewPushesDefaults(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)

	want := map[string]float32{
		rhino.KeyPreGain:    5,
		rhino.KeyPostGain:   0.7,
		rhino.KeyLowGain:    0,
		rhino.KeyMidGain:    0,
		rhino.KeyHighGain:   0,
		rhino.KeyDistortion: 1,
		rhino.KeyDistType:   1,
	}
	direct := h.fake.DirectWrites()
	if len(direct) != len(want) {
		t.Fatalf("direct writes = %d, want %d: %+v", len(direct), len(want), direct)
	}
	for _, w := range direct {
		if v, ok := want[w.Key]; !ok || v != w.Value {
			t.Fatalf("unexpected direct write %+v", w)
		}
	}
	if got := h.fake.RampedWrites(); len(got) != 0 {
		t.Fatalf("ramped writes during construction: %+v", got)
	}
	if got := h.fake.RampDuration(); got != core.DefaultRampDuration {
		t.Fatalf("ramp duration = %v, want %v", got, core.DefaultRampDuration)
	}

	g := h.g
	if g.PreGain() != 5 || g.PostGain() != 0.7 || g.Distortion() != 1 || g.DistortionType() != 1 {
		t.Fatalf("defaults not stored: %+v", g.Preset())
	}
	if g.LowGain() != 0 || g.MidGain() != 0 || g.HighGain() != 0 {
		t.Fatalf("eq defaults not stored: %+v", g.Preset())
	}
}

func TestNewWithOptions(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil,
		rhino.WithPreGain(2),
		rhino.WithDistType(3),
		rhino.WithRampDuration(0.01),
	)

	if got := writesFor(h.fake.DirectWrites(), rhino.KeyPreGain); len(got) != 1 || got[0] != 2 {
		t.Fatalf("preGain writes = %v", got)
	}
	if got := writesFor(h.fake.DirectWrites(), rhino.KeyDistType); len(got) != 1 || got[0] != 3 {
		t.Fatalf("distType writes = %v", got)
	}
	if h.g.DistortionType() != 3 {
		t.Fatalf("DistortionType = %v", h.g.DistortionType())
	}
	if h.fake.RampDuration() != 0.01 {
		t.Fatalf("ramp duration = %v", h.fake.RampDuration())
	}
}

func TestSetterBeforeSetUpWritesDirectly(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)
	h.fake.ClearWrites()

	h.g.SetMidGain(0.5)

	if got := writesFor(h.fake.DirectWrites(), rhino.KeyMidGain); len(got) != 1 || got[0] != 0.5 {
		t.Fatalf("direct midGain writes = %v", got)
	}
	if got := h.fake.RampedWrites(); len(got) != 0 {
		t.Fatalf("ramped writes = %+v", got)
	}
	if h.g.MidGain() != 0.5 {
		t.Fatalf("MidGain = %v", h.g.MidGain())
	}
}

func TestSetterAfterSetUpGoesThroughTree(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)
	if err := h.g.Allocate(); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	h.fake.ClearWrites()

	h.g.SetHighGain(-0.25)
	if err := h.queue.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if got := writesFor(h.fake.RampedWrites(), rhino.KeyHighGain); len(got) != 1 || got[0] != -0.25 {
		t.Fatalf("ramped highGain writes = %v", got)
	}
	if got := h.fake.DirectWrites(); len(got) != 0 {
		t.Fatalf("direct writes = %+v", got)
	}
	if got := h.fake.Tree().Get(rhino.KeyHighGain).Value(); got != -0.25 {
		t.Fatalf("tree value = %v", got)
	}
	if h.g.HighGain() != -0.25 {
		t.Fatalf("HighGain = %v", h.g.HighGain())
	}
}

func TestSetterIgnoresEqualValue(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)
	h.fake.ClearWrites()

	h.g.SetPreGain(rhino.DefaultPreGain)
	h.g.SetDistortion(rhino.DefaultDistortion)

	if got := h.fake.DirectWrites(); len(got) != 0 {
		t.Fatalf("equal values forwarded: %+v", got)
	}

	if err := h.g.Allocate(); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	h.g.SetPostGain(0.3)
	h.g.SetPostGain(0.3)
	if got := writesFor(h.fake.RampedWrites(), rhino.KeyPostGain); len(got) != 1 {
		t.Fatalf("postGain ramped writes = %v, want one", got)
	}
}

func TestTreeChangesMirrorIntoProperties(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)
	if err := h.g.Allocate(); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	h.fake.ClearWrites()

	// A host-side write, not originated by the node.
	h.fake.Tree().Get(rhino.KeyDistortion).SetValue(7, unit.Token{})
	if err := h.queue.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if h.g.Distortion() != 7 {
		t.Fatalf("Distortion = %v, want 7", h.g.Distortion())
	}
	// Mirroring the value back must not write the tree a second time.
	if got := writesFor(h.fake.RampedWrites(), rhino.KeyDistortion); len(got) != 1 {
		t.Fatalf("distortion ramped writes = %v, want one", got)
	}
}

func TestTreeChangesMirrorBeforeSetUp(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)
	h.fake.ClearWrites()

	h.fake.Tree().Get(rhino.KeyLowGain).SetValue(0.75, unit.Token{})
	if err := h.queue.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if h.g.LowGain() != 0.75 {
		t.Fatalf("LowGain = %v", h.g.LowGain())
	}
}

func TestTreeChangeToUnboundParameterIgnored(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)
	before := h.g.Preset()

	h.fake.Tree().Get(rhino.KeyDistType).SetValue(2, unit.Token{})
	if err := h.queue.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if after := h.g.Preset(); after != before {
		t.Fatalf("preset changed: %+v -> %+v", before, after)
	}
}

func TestInstantiateFailure(t *testing.T) {
	h := newHarness(t, nil, nil)

	if !strings.Contains(h.logs.String(), "instantiate failed") {
		t.Fatalf("missing log, got %q", h.logs.String())
	}
	if h.g.Unit() != nil {
		t.Fatal("unit should be nil")
	}

	h.g.SetPreGain(9)
	h.g.Start()
	if h.g.IsStarted() {
		t.Fatal("IsStarted without unit")
	}
	if h.g.PreGain() != 9 {
		t.Fatalf("PreGain = %v", h.g.PreGain())
	}
	if _, err := h.g.Render(8); err != rhino.ErrNoUnit {
		t.Fatalf("Render err = %v, want ErrNoUnit", err)
	}
	if err := h.g.Allocate(); err != rhino.ErrNoUnit {
		t.Fatalf("Allocate err = %v, want ErrNoUnit", err)
	}
	h.g.Close()
}

func TestMissingTree(t *testing.T) {
	fake := testutil.NewFakeUnit()
	h := newHarness(t, fake, nil)

	if !strings.Contains(h.logs.String(), "parameter tree failed") {
		t.Fatalf("missing log, got %q", h.logs.String())
	}
	if got := len(fake.DirectWrites()); got != 7 {
		t.Fatalf("initial direct writes = %d, want 7", got)
	}

	if err := h.g.Allocate(); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	fake.ClearWrites()
	h.g.SetPreGain(1)
	if got := fake.DirectWrites(); len(got) != 0 {
		t.Fatalf("direct writes after setup = %+v", got)
	}
	if h.g.PreGain() != 1 {
		t.Fatalf("PreGain = %v", h.g.PreGain())
	}
}

func TestStartStop(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)

	if h.g.IsStarted() {
		t.Fatal("started before Start")
	}
	h.g.Start()
	if !h.g.IsStarted() || !h.fake.IsPlaying() {
		t.Fatal("Start not forwarded")
	}
	h.g.Stop()
	if h.g.IsStarted() || h.fake.IsPlaying() {
		t.Fatal("Stop not forwarded")
	}
}

func TestRampDurationForwardsNewValue(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)

	h.g.SetRampDuration(0.05)
	if h.fake.RampDuration() != 0.05 {
		t.Fatalf("unit ramp = %v, want 0.05", h.fake.RampDuration())
	}
	if h.g.RampDuration() != 0.05 {
		t.Fatalf("RampDuration = %v", h.g.RampDuration())
	}

	if err := h.g.Allocate(); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if h.fake.RampDuration() != 0.05 {
		t.Fatalf("Allocate reset ramp to %v", h.fake.RampDuration())
	}
}

func TestRenderPullsInput(t *testing.T) {
	src := unit.NewBufferSource(testutil.Planar([]float64{1, 2, 3, 4}, []float64{-1, -2, -3, -4}))
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), src)

	if got := h.g.Inputs(); len(got) != 1 || got[0] != unit.Node(src) {
		t.Fatalf("input not connected: %v", got)
	}
	if h.g.Channels() != 2 {
		t.Fatalf("Channels = %d", h.g.Channels())
	}
	if err := h.g.Allocate(core.WithBlockSize(4)); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	h.g.Start()

	out, err := h.g.Render(4)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out[0], []float64{2, 4, 6, 8}, 0)
	testutil.RequireSliceNearlyEqual(t, out[1], []float64{-2, -4, -6, -8}, 0)
	if h.fake.Processed() != 1 {
		t.Fatalf("Process calls = %d, want 1", h.fake.Processed())
	}
}

func TestRenderWithoutInputIsSilent(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)
	if err := h.g.Allocate(); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	out, err := h.g.Render(16)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(out) != 1 || len(out[0]) != 16 {
		t.Fatalf("shape = %dx%d", len(out), len(out[0]))
	}
	if p := testutil.Peak(out[0]); p != 0 {
		t.Fatalf("peak = %v", p)
	}
}

func TestCloseReleasesUnit(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)
	if err := h.g.Allocate(); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	tree := h.fake.Tree()

	h.g.Close()
	h.g.Close()

	tree.Get(rhino.KeyDistortion).SetValue(8, unit.Token{})
	if err := h.queue.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if h.g.Distortion() != rhino.DefaultDistortion {
		t.Fatalf("Distortion = %v, observer still registered", h.g.Distortion())
	}
	if !h.fake.Deallocated() {
		t.Fatal("unit not deallocated")
	}
	if h.g.IsStarted() {
		t.Fatal("started after Close")
	}

	h.g.SetPreGain(3)
	if h.g.PreGain() != 3 {
		t.Fatalf("PreGain = %v", h.g.PreGain())
	}
}

func TestValueByKey(t *testing.T) {
	h := newHarness(t, testutil.NewFakeUnit(amp.Specs()...), nil)

	if !h.g.SetValue(rhino.KeyPostGain, 0.2) {
		t.Fatal("SetValue rejected postGain")
	}
	if v, ok := h.g.Value(rhino.KeyPostGain); !ok || v != 0.2 {
		t.Fatalf("Value = %v, %v", v, ok)
	}
	if h.g.SetValue(rhino.KeyDistType, 2) {
		t.Fatal("distType must not be settable")
	}
	if _, ok := h.g.Value("bogus"); ok {
		t.Fatal("unknown key reported")
	}
}

func TestWithAmpUnit(t *testing.T) {
	src := unit.NewSineSource(1, 220, 0.5, 48000)
	q := unit.NewQueue(16)
	q.Start()
	defer q.Close()

	g := rhino.New(src, rhino.WithQueue(q), rhino.WithLogger(slog.New(slog.DiscardHandler)))
	defer g.Close()

	if g.Unit() == nil {
		t.Fatal("amp unit not registered under the component code")
	}
	if err := g.Allocate(core.WithSampleRate(48000), core.WithBlockSize(256)); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	g.Start()

	var peak float64
	for i := 0; i < 8; i++ {
		out, err := g.Render(256)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		testutil.RequireFinite(t, out...)
		peak = math.Max(peak, testutil.Peak(out[0]))
	}
	if peak == 0 {
		t.Fatal("silent output")
	}

	g.SetPostGain(0)
	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	v, err := g.Unit().Parameter(rhino.KeyPostGain)
	if err != nil || v != 0 {
		t.Fatalf("unit postGain = %v, %v", v, err)
	}
}

// slowSetUpUnit stalls its first IsSetUp call so that a second writer can
// store its value while the first is still forwarding.
type slowSetUpUnit struct {
	*testutil.FakeUnit

	once  sync.Once
	stall time.Duration
}

func (u *slowSetUpUnit) IsSetUp() bool {
	u.once.Do(func() { time.Sleep(u.stall) })
	return u.FakeUnit.IsSetUp()
}

func TestConcurrentSettersKeepUnitInSync(t *testing.T) {
	fake := testutil.NewFakeUnit(amp.Specs()...)
	slow := &slowSetUpUnit{FakeUnit: fake, stall: 50 * time.Millisecond}

	reg := unit.NewRegistry()
	reg.MustRegister(unit.Description{Code: rhino.ComponentCode}, func(unit.Description) (unit.AudioUnit, error) {
		return slow, nil
	})

	q := unit.NewQueue(16)
	q.Start()
	defer q.Close()

	g := rhino.New(nil,
		rhino.WithRegistry(reg),
		rhino.WithQueue(q),
		rhino.WithLogger(slog.New(slog.DiscardHandler)))
	defer g.Close()

	if err := g.Allocate(); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.SetPreGain(3)
	}()
	time.Sleep(10 * time.Millisecond)
	g.SetPreGain(4)
	wg.Wait()

	if err := q.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	prop := g.PreGain()
	tree := float64(fake.Tree().Get(rhino.KeyPreGain).Value())
	if prop != tree {
		t.Fatalf("property preGain = %v, unit preGain = %v", prop, tree)
	}
}
