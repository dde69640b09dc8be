package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/devantler-tech/ksync/pkg/svc/merge"
	"github.com/sirupsen/logrus"
)

// ApplyOutcome reports what ApplyMerge did.
type ApplyOutcome struct {
	Merged    merge.Merged
	Store     string
	Namespace string
	// NoOp is set when nothing was selected for the resource.
	NoOp bool
}

// ReconstructMerge applies the current selection for result onto the
// destination chosen by direction without persisting anything.
func (s *Session) ReconstructMerge(result compare.Result, direction merge.Direction) (merge.Merged, error) {
	if s.isClosed() {
		return merge.Merged{}, ErrClosed
	}

	merged, err := s.reconstructor.Reconstruct(result, s.Selection(), direction)
	if err != nil {
		return merge.Merged{}, fmt.Errorf("reconstruct merge: %w", err)
	}

	return merged, nil
}

// ApplyMerge reconstructs the merge for result and creates it in the
// destination store under namespace, or the destination's own namespace when
// namespace is empty. An empty selection is reported as a no-op. The
// selection is cleared after a successful apply. Creation is never retried.
func (s *Session) ApplyMerge(
	ctx context.Context,
	result compare.Result,
	direction merge.Direction,
	namespace string,
) (ApplyOutcome, error) {
	merged, err := s.ReconstructMerge(result, direction)
	if errors.Is(err, merge.ErrEmptySelection) {
		return ApplyOutcome{NoOp: true}, nil
	}

	if err != nil {
		return ApplyOutcome{}, err
	}

	if namespace == "" {
		namespace = merged.Snapshot.Namespace
	}

	destination := s.Store(SideSecondary)
	if direction == merge.SecondaryToPrimary {
		destination = s.Store(SidePrimary)
	}

	err = destination.ApplyResource(ctx, merged.Snapshot.Kind, namespace, merged.Snapshot)
	if err != nil {
		return ApplyOutcome{}, fmt.Errorf("apply merge: %w", err)
	}

	s.ClearSelection()

	s.logger.WithFields(logrus.Fields{
		"resource":  result.Identity.String(),
		"store":     destination.Name(),
		"namespace": namespace,
		"keys":      merged.Keys,
	}).Debug("merge applied")

	return ApplyOutcome{Merged: merged, Store: destination.Name(), Namespace: namespace}, nil
}
