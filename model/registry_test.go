package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-basemodel/pkg/testsupport"
)

func TestRegistry_Instance(t *testing.T) {
	r := NewRegistry()
	users := testsupport.NewRecordingEntity("User", "users", nil)

	first, err := r.Instance("User", Options{Entity: users})
	require.NoError(t, err)

	second, err := r.Instance("User", Options{Entity: testsupport.NewRecordingEntity("Other", "others", nil)})
	require.NoError(t, err)
	assert.Same(t, first, second, "later options are ignored")

	got, ok := r.Get("User")
	assert.True(t, ok)
	assert.Same(t, first, got)

	_, ok = r.Get("Group")
	assert.False(t, ok)
}

func TestRegistry_InstanceError(t *testing.T) {
	r := NewRegistry()

	_, err := r.Instance("Broken", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `model "Broken"`)
	assert.Empty(t, r.Names(), "failed constructions are not registered")
}

func TestRegistry_ConcurrentInstance(t *testing.T) {
	r := NewRegistry()
	users := testsupport.NewRecordingEntity("User", "users", nil)

	const workers = 16
	results := make([]*Model, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := r.Instance("User", Options{Entity: users})
			if err == nil {
				results[i] = m
			}
		}(i)
	}
	wg.Wait()

	for _, m := range results {
		assert.Same(t, results[0], m)
	}
	assert.Equal(t, []string{"User"}, r.Names())
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"User", "Group", "Account"} {
		_, err := r.Instance(name, Options{Entity: testsupport.NewRecordingEntity(name, name, nil)})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"Account", "Group", "User"}, r.Names())
}
