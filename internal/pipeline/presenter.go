package pipeline

import (
	"context"
	"path/filepath"

	"slidecast/internal/deck"
	"slidecast/internal/render"
	"slidecast/internal/services"
)

// PresenterStage produces the presenter frame for a job. The frame is a pure
// function of the requested style and resolution.
type PresenterStage struct{}

// Name identifies the stage in progress messages and failure records.
func (s *PresenterStage) Name() string { return "presenter" }

// Produce renders the presenter frame into the job's staging directory.
func (s *PresenterStage) Produce(ctx context.Context, renderer *render.Renderer, style deck.Style, dir string) (PresenterArtifact, error) {
	if err := ctx.Err(); err != nil {
		return PresenterArtifact{}, err
	}
	path := filepath.Join(dir, "presenter.png")
	if err := renderer.Presenter(style, path); err != nil {
		return PresenterArtifact{}, services.Wrap(services.ErrTransient, s.Name(), "render frame", "failed to render presenter frame", err)
	}
	return PresenterArtifact{Path: path}, nil
}

// HealthCheck always reports ready: the stage has no external dependencies.
func (s *PresenterStage) HealthCheck(ctx context.Context) Health {
	return Healthy(s.Name())
}
