package bundle

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gopak/loadorder/internal/dependency"
)

func names(t *testing.T, r *Resolver, development bool) []string {
	t.Helper()
	cfgs, err := r.BundleConfigs(development)
	require.NoError(t, err)
	return cfgs.Names()
}

func TestResolver_Empty(t *testing.T) {
	cfgs, err := NewResolver().BundleConfigs(false)
	require.NoError(t, err)
	require.Empty(t, cfgs)
}

func TestResolver_LoadAfter(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("news").WithLoadAfter("core"),
		NewConfig("core"),
		NewConfig("calendar").WithLoadAfter("news", "core"),
	)
	require.Equal(t, []string{"core", "news", "calendar"}, names(t, r, false))
}

func TestResolver_ReplaceRedirectsReferences(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("Z").WithLoadAfter("Y"),
		NewConfig("Y"),
		NewConfig("X").WithReplace("Y"),
	)
	got := names(t, r, false)
	require.Equal(t, []string{"X", "Z"}, got)
	require.NotContains(t, got, "Y")
}

func TestResolver_ReplacingBundleLoadingAfterWhatItReplacesIsCycle(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("X").WithReplace("Y").WithLoadAfter("Y", "base"),
		NewConfig("base"),
	)
	_, err := r.BundleConfigs(true)
	var cerr *dependency.UnresolvableDependenciesError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, []string{"X", "X"}, cerr.Cycle)
}

func TestResolver_ReplaceLoopKeepsLastCanonicalName(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("A").WithReplace("B"),
		NewConfig("B").WithReplace("A"),
		NewConfig("C").WithLoadAfter("A"),
	)
	require.Equal(t, []string{"B", "C"}, names(t, r, false))
}

func TestResolver_ChainedReplace(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("Z").WithLoadAfter("A"),
		NewConfig("B").WithReplace("A"),
		NewConfig("C").WithReplace("B"),
	)
	require.Equal(t, []string{"C", "Z"}, names(t, r, false))
}

func TestResolver_LastReplaceWins(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("Z").WithLoadAfter("Y"),
		NewConfig("X").WithReplace("Y"),
		NewConfig("W").WithReplace("Y"),
	)
	// Z is pulled behind W, not X
	require.Equal(t, []string{"W", "Z", "X"}, names(t, r, false))
}

func TestResolver_SelfReplaceIgnored(t *testing.T) {
	r := NewResolver().Add(NewConfig("A").WithReplace("A"))
	require.Equal(t, []string{"A"}, names(t, r, false))
}

func TestResolver_EnvironmentFilter(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("A").ProductionOnly(),
		NewConfig("B").WithLoadAfter("A"),
	)
	require.Equal(t, []string{"B"}, names(t, r, true))
	require.Equal(t, []string{"A", "B"}, names(t, r, false))
}

func TestResolver_DevelopmentOnly(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("debug").DevelopmentOnly().WithLoadAfter("core"),
		NewConfig("core"),
	)
	require.Equal(t, []string{"core", "debug"}, names(t, r, true))
	require.Equal(t, []string{"core"}, names(t, r, false))
}

func TestResolver_LaterDeclarationOverridesEnvironment(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("A"),
		NewConfig("A").ProductionOnly(),
	)
	require.Empty(t, names(t, r, true))
	require.Equal(t, []string{"A"}, names(t, r, false))
}

func TestResolver_UnknownLoadAfterIsIgnored(t *testing.T) {
	r := NewResolver().Add(NewConfig("A").WithLoadAfter("ghost"))
	require.Equal(t, []string{"A"}, names(t, r, false))
}

func TestResolver_Cycle(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("A").WithLoadAfter("B"),
		NewConfig("B").WithLoadAfter("A"),
	)
	_, err := r.BundleConfigs(false)
	require.Error(t, err)
	require.True(t, errors.Is(err, dependency.ErrUnresolvable))
}

func TestResolver_CycleThroughReplacement(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("A").WithLoadAfter("old"),
		NewConfig("new").WithReplace("old").WithLoadAfter("A"),
	)
	_, err := r.BundleConfigs(true)
	var cerr *dependency.UnresolvableDependenciesError
	require.ErrorAs(t, err, &cerr)
}

func TestResolver_DoesNotMutateDeclarations(t *testing.T) {
	z := NewConfig("Z").WithLoadAfter("Y")
	r := NewResolver().Add(z, NewConfig("X").WithReplace("Y"))
	_ = names(t, r, false)
	require.Equal(t, []string{"Y"}, z.LoadAfter)
}

func TestResolver_ReflectsLaterAdds(t *testing.T) {
	r := NewResolver().Add(NewConfig("B").WithLoadAfter("A"))
	require.Equal(t, []string{"B"}, names(t, r, false))
	r.Add(NewConfig("A"))
	require.Equal(t, []string{"A", "B"}, names(t, r, false))
}

func TestResolver_ConcurrentEnvironments(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("A").ProductionOnly(),
		NewConfig("B").WithLoadAfter("A"),
		NewConfig("C").DevelopmentOnly().WithLoadAfter("B"),
	)
	var wg sync.WaitGroup
	results := make([][]string, 2)
	for i, dev := range []bool{true, false} {
		i, dev := i, dev
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfgs, err := r.BundleConfigs(dev)
			if err == nil {
				results[i] = cfgs.Names()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, []string{"B", "C"}, results[0])
	require.Equal(t, []string{"A", "B"}, results[1])
}

func TestResolver_Requirements(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("core"),
		NewConfig("news").WithLoadAfter("core"),
		NewConfig("faq"),
		NewConfig("calendar").WithLoadAfter("news"),
	)
	cfgs, err := r.Requirements(false, "calendar")
	require.NoError(t, err)
	require.Equal(t, []string{"core", "news", "calendar"}, cfgs.Names())
}

func TestResolver_RequirementsFollowReplacement(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("Z").WithLoadAfter("Y"),
		NewConfig("Y"),
		NewConfig("X").WithReplace("Y").WithLoadAfter("W"),
		NewConfig("W"),
		NewConfig("unrelated"),
	)
	cfgs, err := r.Requirements(false, "Z")
	require.NoError(t, err)
	require.Equal(t, []string{"W", "X", "Z"}, cfgs.Names())

	cfgs, err = r.Requirements(false, "Y")
	require.NoError(t, err)
	require.Equal(t, []string{"W", "X"}, cfgs.Names())
}

func TestResolver_RequirementsRespectEnvironment(t *testing.T) {
	r := NewResolver().Add(
		NewConfig("core"),
		NewConfig("debug").DevelopmentOnly().WithLoadAfter("core"),
	)
	cfgs, err := r.Requirements(false, "debug")
	require.NoError(t, err)
	require.Empty(t, cfgs)
}
