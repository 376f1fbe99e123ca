package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ekthaa/customer-client/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	store := NewMemoryStore(State{})
	m, err := NewManager(store)
	require.NoError(t, err)

	assert.False(t, m.Authenticated())
	assert.Equal(t, ThemeLight, m.Theme())

	require.NoError(t, m.Begin("tok-1", &models.User{ID: "u1", Name: "Asha"}))
	assert.True(t, m.Authenticated())
	assert.Equal(t, "tok-1", m.Token())
	assert.Equal(t, "Asha", m.User().Name)

	persisted, _ := store.Load()
	assert.Equal(t, "tok-1", persisted.Token)
	require.NotNil(t, persisted.User)

	cleared, err := m.End()
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Empty(t, m.Token())
	assert.Nil(t, m.User())

	persisted, _ = store.Load()
	assert.Empty(t, persisted.Token)
	assert.Nil(t, persisted.User)

	cleared, err = m.End()
	require.NoError(t, err)
	assert.False(t, cleared, "second clear is a no-op")
}

func TestEndIfToken(t *testing.T) {
	store := NewMemoryStore(State{Token: "tok-1", User: &models.User{ID: "u1"}})
	m, err := NewManager(store)
	require.NoError(t, err)

	cleared, err := m.EndIfToken("tok-old")
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.Equal(t, "tok-1", m.Token())

	cleared, err = m.EndIfToken("")
	require.NoError(t, err)
	assert.False(t, cleared, "unauthenticated request must not sign out")

	cleared, err = m.EndIfToken("tok-1")
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.False(t, m.Authenticated())

	cleared, err = m.EndIfToken("")
	require.NoError(t, err)
	assert.False(t, cleared)
}

func TestManagerUserIsACopy(t *testing.T) {
	m, err := NewManager(NewMemoryStore(State{}))
	require.NoError(t, err)
	require.NoError(t, m.Begin("tok", &models.User{Name: "Asha"}))

	u := m.User()
	u.Name = "changed"
	assert.Equal(t, "Asha", m.User().Name)
}

func TestToggleThemeSurvivesLogout(t *testing.T) {
	m, err := NewManager(NewMemoryStore(State{Token: "t", Theme: ThemeLight}))
	require.NoError(t, err)

	theme, err := m.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	_, err = m.End()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, m.Theme())

	theme, _ = m.ToggleTheme()
	assert.Equal(t, ThemeLight, theme)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	state, err := store.Load()
	require.NoError(t, err, "missing file is an empty session")
	assert.Empty(t, state.Token)

	m, err := NewManager(store)
	require.NoError(t, err)
	require.NoError(t, m.Begin("tok-2", &models.User{ID: "u2", Phone: "9876543210"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := NewManager(NewFileStore(path))
	require.NoError(t, err)
	assert.Equal(t, "tok-2", reopened.Token())
	assert.Equal(t, "9876543210", reopened.User().Phone)

	_, err = reopened.End()
	require.NoError(t, err)
	state, err = NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Empty(t, state.Token)
	assert.Nil(t, state.User)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewManager(NewFileStore(path))
	assert.Error(t, err)
}

func TestConcurrentEndClearsOnce(t *testing.T) {
	m, err := NewManager(NewMemoryStore(State{Token: "t", User: &models.User{ID: "u"}}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cleared, _ := m.End()
			results <- cleared
		}()
	}
	wg.Wait()
	close(results)

	count := 0
	for cleared := range results {
		if cleared {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
