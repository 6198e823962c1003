package storemock_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapperlabs/paxosmon/store"
	"github.com/dapperlabs/paxosmon/store/storemock"
)

func TestMockEpochStoreSatisfiesInterface(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := storemock.NewMockEpochStore(ctrl)

	var _ store.EpochStore = m

	m.EXPECT().PersistEpoch(uint64(7)).Return(nil)
	m.EXPECT().ReadPersistedEpoch().Return(uint64(7), nil)
	m.EXPECT().ValidateStore().Return(nil)

	require.NoError(t, m.PersistEpoch(7))
	e, err := m.ReadPersistedEpoch()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), e)
	assert.NoError(t, m.ValidateStore())
}
