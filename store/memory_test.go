package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapperlabs/paxosmon/store"
)

func TestMemoryStoreStartsAtZero(t *testing.T) {
	s := store.NewMemoryStore()
	e, err := s.ReadPersistedEpoch()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), e)
}

func TestMemoryStorePersistThenRead(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.PersistEpoch(42))

	e, err := s.ReadPersistedEpoch()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), e)
}

func TestMemoryStoreValidate(t *testing.T) {
	s := store.NewMemoryStore()
	assert.NoError(t, s.ValidateStore())

	s.SetCorrupt(true)
	assert.ErrorIs(t, s.ValidateStore(), store.ErrCorrupt)
}

var _ store.EpochStore = (*store.MemoryStore)(nil)
