package compare_test

import (
	"testing"

	"github.com/devantler-tech/ksync/pkg/resource"
	"github.com/devantler-tech/ksync/pkg/svc/compare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSnapshot(t *testing.T, kind resource.Kind, name string, data map[string]string) resource.Snapshot {
	t.Helper()

	snapshot, err := resource.NewSnapshot(kind, "default", name, resource.NewDataMap(data))
	require.NoError(t, err)

	return snapshot
}

func TestCompare_PerKeyScenario(t *testing.T) {
	t.Parallel()

	primary := mustSnapshot(t, resource.KindConfigMap, "app-config", map[string]string{"a": "1", "b": "2"})
	secondary := mustSnapshot(t, resource.KindConfigMap, "app-config", map[string]string{"a": "1", "b": "3"})

	result, err := compare.NewComparator().Compare(primary, secondary)
	require.NoError(t, err)

	assert.Equal(t, compare.StatusDifferent, result.Status)
	require.Len(t, result.KeyPatches, 1)
	assert.Equal(t, "b", result.KeyPatches[0].Key)
	assert.Contains(t, result.PatchText, "Index: app-config\n")
	assert.Contains(t, result.PatchText, "-  \"b\": \"2\"\n")
	assert.Contains(t, result.PatchText, "+  \"b\": \"3\"\n")
}

func TestCompare_ExistenceDrivesStatus(t *testing.T) {
	t.Parallel()

	present := mustSnapshot(t, resource.KindSecret, "creds", map[string]string{})

	// The primary carries data but was not found in its store.
	absent := resource.Snapshot{
		Identity: present.Identity,
		Data:     resource.NewDataMap(map[string]string{"user": "QWxpY2U="}),
	}

	result, err := compare.NewComparator().Compare(absent, present)
	require.NoError(t, err)
	assert.Equal(t, compare.StatusSecondaryOnly, result.Status)
	assert.Empty(t, result.PatchText)

	result, err = compare.NewComparator().Compare(present, resource.Missing(present.Identity))
	require.NoError(t, err)
	assert.Equal(t, compare.StatusPrimaryOnly, result.Status)
}

func TestCompare_Errors(t *testing.T) {
	t.Parallel()

	creds := mustSnapshot(t, resource.KindSecret, "creds", nil)
	other := mustSnapshot(t, resource.KindSecret, "other", nil)

	_, err := compare.NewComparator().Compare(creds, other)
	require.ErrorIs(t, err, compare.ErrIdentityMismatch)

	_, err = compare.NewComparator().Compare(resource.Missing(creds.Identity), resource.Missing(creds.Identity))
	require.ErrorIs(t, err, compare.ErrNothingToCompare)
}

func TestCompare_IdenticalIffCanonicalEqual(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		primary       map[string]string
		secondary     map[string]string
		wantIdentical bool
	}{
		{name: "both empty", primary: nil, secondary: map[string]string{}, wantIdentical: true},
		{name: "same entries", primary: map[string]string{"a": "1", "b": "2"}, secondary: map[string]string{"b": "2", "a": "1"}, wantIdentical: true},
		{name: "changed value", primary: map[string]string{"a": "1"}, secondary: map[string]string{"a": "2"}},
		{name: "extra key", primary: map[string]string{"a": "1"}, secondary: map[string]string{"a": "1", "b": ""}},
		{name: "empty versus populated", primary: map[string]string{}, secondary: map[string]string{"a": "1"}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			primary := mustSnapshot(t, resource.KindSecret, "creds", testCase.primary)
			secondary := mustSnapshot(t, resource.KindSecret, "creds", testCase.secondary)

			result, err := compare.NewComparator().Compare(primary, secondary)
			require.NoError(t, err)

			canonicalEqual := primary.Canonical() == secondary.Canonical()
			assert.Equal(t, testCase.wantIdentical, canonicalEqual)
			assert.Equal(t, canonicalEqual, result.Status == compare.StatusIdentical)
			assert.Empty(t, result.KeyPatches, "secrets are not diffed per key")
		})
	}
}

func TestCompare_ResultIsIndependentOfInputs(t *testing.T) {
	t.Parallel()

	primary := mustSnapshot(t, resource.KindSecret, "creds", map[string]string{"a": "1"})
	secondary := mustSnapshot(t, resource.KindSecret, "creds", map[string]string{"a": "2"})

	result, err := compare.NewComparator().Compare(primary, secondary)
	require.NoError(t, err)

	primary.Data.Set("a", "mutated")

	value, _ := result.Primary.Data.Get("a")
	assert.Equal(t, "1", value)
}

func TestResult_DeepCopy(t *testing.T) {
	t.Parallel()

	comparator := compare.NewComparator()

	primary, err := resource.NewSnapshot(resource.KindConfigMap, "default", "app",
		resource.NewDataMap(map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, err)

	secondary, err := resource.NewSnapshot(resource.KindConfigMap, "default", "app",
		resource.NewDataMap(map[string]string{"a": "1", "b": "3"}))
	require.NoError(t, err)

	original, err := comparator.Compare(primary, secondary)
	require.NoError(t, err)

	copied := original.DeepCopy()
	copied.Primary.Data.Set("c", "4")
	copied.Secondary.Data.Delete("b")
	copied.KeyPatches[0].Key = "other"

	assert.Equal(t, []string{"a", "b"}, original.Primary.Data.Keys())
	_, ok := original.Primary.Data.Get("c")
	assert.False(t, ok)
	assert.Equal(t, map[string]string{"a": "1", "b": "3"}, original.Secondary.Data.ToMap())
	assert.Equal(t, "b", original.KeyPatches[0].Key)
	assert.Nil(t, compare.DeepCopyAll(nil))
}

func TestCompare_Labels(t *testing.T) {
	t.Parallel()

	primary := mustSnapshot(t, resource.KindSecret, "creds", map[string]string{"a": "1"})
	secondary := mustSnapshot(t, resource.KindSecret, "creds", map[string]string{"a": "2"})

	comparator := compare.NewComparator(compare.WithLabels("kind-dev", "kind-prod"))

	result, err := comparator.Compare(primary, secondary)
	require.NoError(t, err)

	assert.Contains(t, result.PatchText, "--- creds\tkind-dev\n")
	assert.Contains(t, result.PatchText, "+++ creds\tkind-prod\n")
}

func TestCompareAll(t *testing.T) {
	t.Parallel()

	primary := []resource.Snapshot{
		mustSnapshot(t, resource.KindSecret, "zeta", map[string]string{"a": "1"}),
		mustSnapshot(t, resource.KindSecret, "alpha", map[string]string{"a": "1"}),
		mustSnapshot(t, resource.KindConfigMap, "app-config", map[string]string{"a": "1"}),
	}
	secondary := []resource.Snapshot{
		mustSnapshot(t, resource.KindSecret, "alpha", map[string]string{"a": "1"}),
		mustSnapshot(t, resource.KindSecret, "beta", map[string]string{"a": "1"}),
		mustSnapshot(t, resource.KindConfigMap, "app-config", map[string]string{"a": "2"}),
	}

	results := compare.NewComparator().CompareAll(primary, secondary)

	got := make([]string, 0, len(results))
	for _, result := range results {
		got = append(got, result.Identity.String()+"="+string(result.Status))
	}

	assert.Equal(t, []string{
		"ConfigMap/default/app-config=different",
		"Secret/default/alpha=identical",
		"Secret/default/beta=secondary-only",
		"Secret/default/zeta=primary-only",
	}, got)

	summary := compare.Summarize(results)
	assert.Equal(t, 1, summary[compare.StatusDifferent])
	assert.Equal(t, 1, summary[compare.StatusIdentical])
	assert.False(t, summary.InSync())
	assert.True(t, compare.Summarize(results[1:2]).InSync())
}
