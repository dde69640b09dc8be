package session

import (
	"fmt"

	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/svc/codec"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/devantler-tech/ksync/pkg/svc/diffview"
)

// ViewOptions selects how a result is rendered.
type ViewOptions struct {
	// Decode shows opaque values decoded. Merges still use the raw values.
	Decode bool
	// PerKey splits multi-entry kinds into one view per differing key.
	PerKey bool
}

// View is one renderable patch and its selectable model.
type View struct {
	// Key is set for per-key views.
	Key       string
	PatchText string
	Model     *diffview.Model
	// DecodeFailures lists values shown raw because they could not be decoded.
	DecodeFailures []codec.FieldError
}

// BuildDiffView renders result as one or more views and registers their
// models so lines can be toggled by model id. Results that are not different
// yield a single view with an empty model.
func (s *Session) BuildDiffView(result compare.Result, opts ViewOptions) ([]View, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}

	views := s.renderViews(result, opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	for _, view := range views {
		s.models[view.Model.ID()] = view.Model
	}

	return views, nil
}

func (s *Session) renderViews(result compare.Result, opts ViewOptions) []View {
	if result.Status != compare.StatusDifferent {
		return []View{s.view(diffview.ScopeFor(result.Identity, ""), "", "", nil)}
	}

	kind := result.Identity.Kind
	primaryData, secondaryData := result.Primary.Data, result.Secondary.Data

	var failures []codec.FieldError

	decoded := s.decoder.Applies(kind, opts.Decode)
	if decoded {
		var primaryFailures, secondaryFailures []codec.FieldError

		primaryData, primaryFailures = s.decoder.DecodeMap(kind, primaryData, true)
		secondaryData, secondaryFailures = s.decoder.DecodeMap(kind, secondaryData, true)
		failures = append(primaryFailures, secondaryFailures...)

		for _, failure := range failures {
			s.logger.WithError(failure).WithField("resource", result.Identity.String()).
				Debug("showing raw value")
		}
	}

	primaryLabel, secondaryLabel := s.comparator.Labels()
	generator := s.comparator.Generator()

	if opts.PerKey && kind.PerKey() {
		keyPatches := generator.CreateKeyPatches(primaryData, secondaryData, primaryLabel, secondaryLabel)
		views := make([]View, 0, len(keyPatches))

		for _, keyPatch := range keyPatches {
			scope := diffview.ScopeFor(result.Identity, keyPatch.Key)
			views = append(views, s.view(scope, keyPatch.Key, keyPatch.Patch, nil))
		}

		return views
	}

	patchText := result.PatchText
	if decoded {
		patchText = generator.CreatePatch(
			result.Identity.Name,
			resource.Canonical(primaryData),
			resource.Canonical(secondaryData),
			primaryLabel,
			secondaryLabel,
		)
	}

	return []View{s.view(diffview.ScopeFor(result.Identity, ""), "", patchText, failures)}
}

func (s *Session) view(scope diffview.Scope, key, patchText string, failures []codec.FieldError) View {
	return View{
		Key:            key,
		PatchText:      patchText,
		Model:          s.cache.Parse(scope, patchText),
		DecodeFailures: failures,
	}
}

// ToggleLine flips the selection of a line in a model built by BuildDiffView.
// Context lines and unknown line ids leave the selection unchanged.
func (s *Session) ToggleLine(modelID, local string) (diffview.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return diffview.Selection{}, ErrClosed
	}

	model, ok := s.models[modelID]
	if !ok {
		return s.selection, fmt.Errorf("%w: %q", ErrUnknownModel, modelID)
	}

	s.selection = model.Toggle(s.selection, local)

	return s.selection, nil
}

// SelectLine sets a line's membership explicitly.
func (s *Session) SelectLine(modelID, local string, selected bool) (diffview.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return diffview.Selection{}, ErrClosed
	}

	model, ok := s.models[modelID]
	if !ok {
		return s.selection, fmt.Errorf("%w: %q", ErrUnknownModel, modelID)
	}

	line, ok := model.Line(local)
	if !ok {
		return s.selection, fmt.Errorf("%w: %q in %s", diffview.ErrInvalidLineID, local, modelID)
	}

	s.selection = s.selection.With(line, selected)

	return s.selection, nil
}

// ClearSelection drops every selected line.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection = diffview.Selection{}
}
