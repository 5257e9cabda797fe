package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-processform/pkg/dom"
	"github.com/goliatone/go-processform/pkg/orchestrator"
	"github.com/goliatone/go-processform/pkg/render"
	"github.com/goliatone/go-processform/pkg/renderers/vanilla"
	"github.com/goliatone/go-processform/pkg/schema"
	"github.com/goliatone/go-processform/pkg/slider"
	"github.com/goliatone/go-processform/pkg/testsupport"
)

func TestOrchestrator_BuildWithSlides(t *testing.T) {
	orch := orchestrator.New()
	page, err := orch.Build(testsupport.Context(), orchestrator.Request{
		Title:  "Emissions",
		Slides: orchestrator.DefaultSlides(),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if page.Slides() == nil || page.Slides().Count() != 4 {
		t.Fatalf("expected a slide controller over 4 slides")
	}
	if !page.Slides().Slides()[0].HasClass(slider.ClassActive) {
		t.Fatalf("expected the first slide active after build")
	}

	page.Document().GetElementByID(slider.DefaultPrev).Dispatch(dom.EventClick)
	if page.Slides().Index() != 3 {
		t.Fatalf("expected prev to wrap to 3, got %d", page.Slides().Index())
	}

	chooser := page.Form().Chooser()
	chooser.SetValue("coal_mining")
	chooser.Dispatch(dom.EventChange)
	if got := len(page.Form().Controls()); got != 3 {
		t.Fatalf("expected 3 controls, got %d", got)
	}

	markup, err := page.HTML()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(markup, `name="mining_area"`) {
		t.Fatalf("expected rendered fields in page html")
	}
}

func TestOrchestrator_BuildWithoutSlides(t *testing.T) {
	page, err := orchestrator.New().Build(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if page.Slides() != nil {
		t.Fatalf("expected no slide controller")
	}
	if _, ok := page.LiveRegions()[vanilla.SliderID]; ok {
		t.Fatalf("expected no slider region")
	}
}

func TestOrchestrator_SanitisesSlides(t *testing.T) {
	out, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Slides: []orchestrator.Slide{{HTML: `<p onclick="x()">hi<script>alert(1)</script></p>`}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	markup := string(out)
	if strings.Contains(markup, "<script>alert") || strings.Contains(markup, "onclick") {
		t.Fatalf("expected slide html to be sanitised: %s", markup)
	}
	if !strings.Contains(markup, "<p>hi</p>") {
		t.Fatalf("expected safe markup to survive: %s", markup)
	}

	_, err = orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Slides: []orchestrator.Slide{{HTML: "<script>only()</script>"}},
	})
	if !errors.Is(err, orchestrator.ErrEmptySlide) {
		t.Fatalf("expected ErrEmptySlide, got %v", err)
	}
}

func TestOrchestrator_CustomRegistry(t *testing.T) {
	reg := schema.MustRegistry(schema.Category{
		ID:    "aviation",
		Title: "Aviation",
		Fields: []schema.FieldDescriptor{
			{Name: "flights", Label: "Flights", Kind: schema.KindNumeric, Min: schema.Float(0)},
		},
	})
	page, err := orchestrator.New(orchestrator.WithRegistry(reg)).Build(testsupport.Context(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var values []string
	for _, opt := range page.Form().Chooser().FindTag("option") {
		values = append(values, opt.Attr("value"))
	}
	if diff := testsupport.CompareGolden([]string{"", "aviation", "other"}, values); diff != "" {
		t.Fatalf("chooser mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orchestrator.New().Build(ctx, orchestrator.Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, vanilla.PageData) ([]byte, error) {
	return nil, errors.New("template exploded")
}

func TestOrchestrator_RendererError(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithPageRenderer(failingRenderer{}))
	if _, err := orch.Generate(testsupport.Context(), orchestrator.Request{}); err == nil || !strings.Contains(err.Error(), "template exploded") {
		t.Fatalf("expected renderer error, got %v", err)
	}
}

func TestOrchestrator_BindMissingRegions(t *testing.T) {
	_, err := orchestrator.New().Bind(strings.NewReader(`<html><body><p>nothing</p></body></html>`))
	if !errors.Is(err, render.ErrMissingElement) {
		t.Fatalf("expected ErrMissingElement, got %v", err)
	}
}
