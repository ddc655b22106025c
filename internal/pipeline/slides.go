package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"slidecast/internal/deck"
	"slidecast/internal/render"
	"slidecast/internal/services"
)

// SlideStage renders one content item into a slide frame.
type SlideStage struct{}

func (s *SlideStage) Name() string { return "slides" }

// Produce renders the slide for the item at the given position.
func (s *SlideStage) Produce(ctx context.Context, renderer *render.Renderer, index int, item deck.Item, dir string) (SlideArtifact, error) {
	if err := ctx.Err(); err != nil {
		return SlideArtifact{}, err
	}
	path := filepath.Join(dir, fmt.Sprintf("slide-%03d.png", index))
	if err := renderer.Slide(item, path); err != nil {
		return SlideArtifact{}, services.Wrap(services.ErrTransient, s.Name(), "render slide",
			fmt.Sprintf("failed to render slide %d", index), err)
	}
	return SlideArtifact{Index: index, Path: path}, nil
}

func (s *SlideStage) HealthCheck(ctx context.Context) Health {
	return Healthy(s.Name())
}
