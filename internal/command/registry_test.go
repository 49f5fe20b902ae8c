package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func noopHandler() Handler {
	return HandlerFunc(func(ctx context.Context, slots map[string]any) (string, error) {
		return "", nil
	})
}

func TestRegisterDuplicateKeepsFirst(t *testing.T) {
	reg := NewRegistry()

	first := &Spec{Intent: "open_app", Description: "first", Handler: noopHandler()}
	require.NoError(t, reg.Register(first))

	err := reg.Register(&Spec{Intent: "open_app", Description: "second", Handler: noopHandler()})
	var dup *DuplicateIntentError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "open_app", dup.Intent)

	specs := reg.Lookup("open_app")
	require.Len(t, specs, 1)
	require.Equal(t, "first", specs[0].Description)
}

func TestRegisterOverload(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(&Spec{Intent: "set", Overload: true, Handler: noopHandler()}))
	require.NoError(t, reg.Register(&Spec{Intent: "set", Overload: true, Handler: noopHandler()}))
	require.Len(t, reg.Lookup("set"), 2)

	// A non-overloading spec cannot join an overloaded identifier.
	err := reg.Register(&Spec{Intent: "set", Handler: noopHandler()})
	var dup *DuplicateIntentError
	require.ErrorAs(t, err, &dup)
}

func TestRegisterAfterFreeze(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Spec{Intent: "time", Handler: noopHandler()}))
	reg.Freeze()

	err := reg.Register(&Spec{Intent: "date", Handler: noopHandler()})
	var frozen *FrozenError
	require.ErrorAs(t, err, &frozen)
	require.Equal(t, "date", frozen.Intent)

	require.Nil(t, reg.Lookup("date"))
	require.Len(t, reg.Lookup("time"), 1)
}

func TestRegisterRejectsInvalidSpecs(t *testing.T) {
	reg := NewRegistry()
	require.Error(t, reg.Register(nil))
	require.Error(t, reg.Register(&Spec{Handler: noopHandler()}))
	require.Error(t, reg.Register(&Spec{Intent: "open_app"}))
}

func TestIntentsSorted(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"volume", "date", "open_app"} {
		require.NoError(t, reg.Register(&Spec{Intent: id, Handler: noopHandler()}))
	}
	reg.Freeze()

	require.Equal(t, []string{"date", "open_app", "volume"}, reg.Intents())
}

func TestFrozenRegistryConcurrentLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&Spec{Intent: "open_app", Handler: noopHandler()}))
	reg.Freeze()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				if len(reg.Lookup("open_app")) != 1 {
					t.Error("lookup lost a spec")
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
