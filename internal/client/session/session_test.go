package session

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^\d{13,}-[0-9a-f]{8}$`)

func TestSessionIDStableAcrossCalls(t *testing.T) {
	p := NewProvider(NewMemoryStorage())
	id := p.SessionID()
	assert.Regexp(t, idPattern, id)
	assert.Equal(t, id, p.SessionID())
}

func TestSessionIDSurvivesRestartWithFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := NewProvider(NewFileStorage(path)).SessionID()
	second := NewProvider(NewFileStorage(path)).SessionID()
	assert.Equal(t, first, second)
}

func TestDistinctStoragesGetDistinctIDs(t *testing.T) {
	a := NewProvider(NewMemoryStorage()).SessionID()
	b := NewProvider(NewMemoryStorage()).SessionID()
	assert.NotEqual(t, a, b)
}

type brokenStorage struct{}

func (brokenStorage) Get(string) (string, bool) { return "", false }
func (brokenStorage) Set(string, string) error  { return errors.New("disk full") }

func TestDegradedStorageStillYieldsIDs(t *testing.T) {
	p := NewProvider(brokenStorage{})
	a := p.SessionID()
	b := p.SessionID()
	require.Regexp(t, idPattern, a)
	require.Regexp(t, idPattern, b)
	// Without working storage every call is a fresh session.
	assert.NotEqual(t, a, b)
}
