package studiomap

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidDomainValue is wrapped by every error caused by a score or team
// size that cannot be placed on the map.
var ErrInvalidDomainValue = errors.New("invalid domain value")

func invalidValue(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidDomainValue, format, args...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// TemplateLoadError reports a template slide that could not be loaded. It
// aborts the whole deck build.
type TemplateLoadError struct {
	Slide int // 1-based
	Path  string
	Err   error
}

func (e *TemplateLoadError) Error() string {
	return fmt.Sprintf("slide %d: load template %q: %v", e.Slide, e.Path, e.Err)
}

func (e *TemplateLoadError) Unwrap() error { return e.Err }

// Cause lets errors.Cause see through the wrapper.
func (e *TemplateLoadError) Cause() error { return e.Err }

// ArtifactWriteError reports a deck or page that could not be persisted.
type ArtifactWriteError struct {
	Path string
	Err  error
}

func (e *ArtifactWriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *ArtifactWriteError) Unwrap() error { return e.Err }

func (e *ArtifactWriteError) Cause() error { return e.Err }
