package compare

import (
	"slices"

	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/svc/patch"
)

// Status classifies a compared resource.
type Status string

const (
	// StatusIdentical means both sides exist with canonically equal data.
	StatusIdentical Status = "identical"
	// StatusDifferent means both sides exist and their data differs.
	StatusDifferent Status = "different"
	// StatusPrimaryOnly means the resource exists only in the primary store.
	StatusPrimaryOnly Status = "primary-only"
	// StatusSecondaryOnly means the resource exists only in the secondary store.
	StatusSecondaryOnly Status = "secondary-only"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusDifferent, StatusPrimaryOnly, StatusSecondaryOnly, StatusIdentical}
}

// Result is the immutable outcome of comparing one resource across both stores.
type Result struct {
	Identity   resource.Identity `json:"identity"`
	Status     Status            `json:"status"`
	PatchText  string            `json:"patchText,omitempty"`
	KeyPatches []patch.KeyPatch  `json:"keyPatches,omitempty"`
	Primary    resource.Snapshot `json:"primary"`
	Secondary  resource.Snapshot `json:"secondary"`
}

// DeepCopy returns a result that shares no data with r.
func (r Result) DeepCopy() Result {
	out := r
	out.KeyPatches = slices.Clone(r.KeyPatches)
	out.Primary = r.Primary.DeepCopy()
	out.Secondary = r.Secondary.DeepCopy()

	return out
}

// DeepCopyAll deep copies every result.
func DeepCopyAll(results []Result) []Result {
	if results == nil {
		return nil
	}

	out := make([]Result, len(results))
	for index, result := range results {
		out[index] = result.DeepCopy()
	}

	return out
}

// Summary counts results per status.
type Summary map[Status]int

// Summarize counts results per status.
func Summarize(results []Result) Summary {
	summary := make(Summary, len(Statuses()))
	for _, status := range Statuses() {
		summary[status] = 0
	}

	for _, result := range results {
		summary[result.Status]++
	}

	return summary
}

// InSync reports whether every result is identical.
func (s Summary) InSync() bool {
	for status, count := range s {
		if status != StatusIdentical && count > 0 {
			return false
		}
	}

	return true
}
