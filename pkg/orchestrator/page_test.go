package orchestrator_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/render"
	"github.com/goliatone/go-processform/pkg/renderers/vanilla"
	"github.com/goliatone/go-processform/pkg/slider"
	"github.com/goliatone/go-processform/pkg/testsupport"
)

func buildPage(t *testing.T, slides []orchestrator.Slide) *orchestrator.Page {
	t.Helper()
	page, err := orchestrator.New().Build(testsupport.Context(), orchestrator.Request{Slides: slides})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return page
}

func changedIDs(regions map[string]string) map[string]bool {
	out := make(map[string]bool, len(regions))
	for id := range regions {
		out[id] = true
	}
	return out
}

func TestPage_ApplyCategoryChange(t *testing.T) {
	page := buildPage(t, nil)

	changed, err := page.Apply(orchestrator.Event{Target: render.DefaultSelectID, Type: "change", Value: "waste_management"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := map[string]bool{render.DefaultFieldsID: true}
	if diff := testsupport.CompareGolden(want, changedIDs(changed)); diff != "" {
		t.Fatalf("changed regions mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(changed[render.DefaultFieldsID], `class="range-value">50%</span>`) {
		t.Fatalf("expected range readout in %s", changed[render.DefaultFieldsID])
	}

	changed, err = page.Apply(orchestrator.Event{Target: render.ControlID("recycling_percentage"), Type: "input", Value: "80"})
	if err != nil {
		t.Fatalf("apply input: %v", err)
	}
	readoutID := render.ReadoutID("recycling_percentage")
	want = map[string]bool{readoutID: true}
	if diff := testsupport.CompareGolden(want, changedIDs(changed)); diff != "" {
		t.Fatalf("input should only refresh the readout (-want +got):\n%s", diff)
	}
	if !strings.Contains(changed[readoutID], ">80%</span>") {
		t.Fatalf("expected updated readout, got %v", changed)
	}

	changed, err = page.Apply(orchestrator.Event{Target: render.ControlID("waste_volume"), Type: "change", Value: "12"})
	if err != nil {
		t.Fatalf("apply numeric change: %v", err)
	}
	if len(changed) != 0 {
		t.Fatalf("typed values should not refresh any region, got %v", changed)
	}

	changed, err = page.Apply(orchestrator.Event{Target: render.DefaultSelectID, Type: "change", Value: "other"})
	if err != nil {
		t.Fatalf("apply other: %v", err)
	}
	want = map[string]bool{render.DefaultFieldsID: true, render.DefaultOtherID: true}
	if diff := testsupport.CompareGolden(want, changedIDs(changed)); diff != "" {
		t.Fatalf("changed regions mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_ApplyRangeSanitisesInput(t *testing.T) {
	page := buildPage(t, nil)
	if _, err := page.Apply(orchestrator.Event{Target: render.DefaultSelectID, Type: "change", Value: "waste_management"}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	control := render.ControlID("recycling_percentage")
	readoutID := render.ReadoutID("recycling_percentage")
	cases := []struct {
		raw, value string
	}{
		{"150", "100"},
		{"-20", "0"},
		{"abc", "50"},
		{"NaN", "50"},
		{"", "50"},
		{"42.6", "43"},
		{"37", "37"},
	}
	for _, tc := range cases {
		changed, err := page.Apply(orchestrator.Event{Target: control, Type: "input", Value: tc.raw})
		if err != nil {
			t.Fatalf("apply %q: %v", tc.raw, err)
		}
		if got := page.Document().GetElementByID(control).Value(); got != tc.value {
			t.Fatalf("input %q stored %q, want %q", tc.raw, got, tc.value)
		}
		if got := page.Document().GetElementByID(readoutID).Text(); got != tc.value+"%" {
			t.Fatalf("input %q shows %q, want %q", tc.raw, got, tc.value+"%")
		}
		if _, ok := changed[render.DefaultFieldsID]; ok {
			t.Fatalf("input %q refreshed the fields region", tc.raw)
		}
	}
}

func TestPage_ApplySlideClicks(t *testing.T) {
	page := buildPage(t, []orchestrator.Slide{{Caption: "one"}, {Caption: "two"}})

	changed, err := page.Apply(orchestrator.Event{Target: slider.DefaultNext, Type: "click"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := changed[vanilla.SliderID]; !ok || page.Slides().Index() != 1 {
		t.Fatalf("expected slider region to change, got %v", changed)
	}

	page.Apply(orchestrator.Event{Target: slider.DefaultNext, Type: "click"})
	if page.Slides().Index() != 0 {
		t.Fatalf("expected wrap to 0, got %d", page.Slides().Index())
	}
}

func TestPage_ApplyErrors(t *testing.T) {
	page := buildPage(t, nil)

	if _, err := page.Apply(orchestrator.Event{Target: "nope", Type: "click"}); !errors.Is(err, orchestrator.ErrUnknownTarget) {
		t.Fatalf("expected ErrUnknownTarget, got %v", err)
	}
	if _, err := page.Apply(orchestrator.Event{Target: render.DefaultSelectID, Type: "hover"}); !errors.Is(err, orchestrator.ErrUnsupportedEvent) {
		t.Fatalf("expected ErrUnsupportedEvent, got %v", err)
	}

	changed, err := page.Apply(orchestrator.Event{Target: render.DefaultSelectID, Type: "change", Value: ""})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(changed) != 0 {
		t.Fatalf("expected no changes for the placeholder, got %v", changed)
	}
}
