package orchestrator

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/slides.yaml
var embeddedSlides embed.FS

// ErrEmptySlide reports a slide without an image, a caption or a body.
var ErrEmptySlide = errors.New("orchestrator: slide has no content")

// Slide is one entry of the slider. HTML is sanitised before rendering; Alt
// and Caption are plain text.
type Slide struct {
	Image   string `yaml:"image,omitempty" json:"image,omitempty"`
	Alt     string `yaml:"alt,omitempty" json:"alt,omitempty"`
	Caption string `yaml:"caption,omitempty" json:"caption,omitempty"`
	HTML    string `yaml:"html,omitempty" json:"html,omitempty"`
}

type slidesFile struct {
	Slides []Slide `yaml:"slides"`
}

// LoadSlides decodes a YAML document with a top-level slides list. Unknown
// keys are rejected.
func LoadSlides(r io.Reader) ([]Slide, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file slidesFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("orchestrator: decode slides: %w", err)
	}

	out := make([]Slide, 0, len(file.Slides))
	for i, s := range file.Slides {
		s = Slide{
			Image:   strings.TrimSpace(s.Image),
			Alt:     strings.TrimSpace(s.Alt),
			Caption: strings.TrimSpace(s.Caption),
			HTML:    strings.TrimSpace(s.HTML),
		}
		if s.Image == "" && s.Caption == "" && s.HTML == "" {
			return nil, fmt.Errorf("%w: slide %d", ErrEmptySlide, i)
		}
		out = append(out, s)
	}
	return out, nil
}

// LoadSlidesFile reads slides from a YAML file on disk.
func LoadSlidesFile(path string) ([]Slide, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open slides: %w", err)
	}
	defer f.Close()
	return LoadSlides(f)
}

// LoadSlidesFS reads slides from name within fsys.
func LoadSlidesFS(fsys fs.FS, name string) ([]Slide, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: open slides: %w", err)
	}
	defer f.Close()
	return LoadSlides(f)
}

// DefaultSlides returns the embedded slide deck.
func DefaultSlides() []Slide {
	slides, err := LoadSlidesFS(embeddedSlides, "data/slides.yaml")
	if err != nil {
		panic(err)
	}
	return slides
}
