package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVTxnCommitPersists(t *testing.T) {
	kv := NewMemKVStore()
	txn, err := kv.Begin()
	require.NoError(t, err)
	require.NoError(t, txn.Put([]byte("peer/alice"), []byte("v1")))
	require.NoError(t, txn.Commit())

	txn2, err := kv.Begin()
	require.NoError(t, err)
	v, err := txn2.Get([]byte("peer/alice"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)
}

func TestKVTxnRollbackDiscardsWrites(t *testing.T) {
	kv := NewMemKVStore()
	txn, err := kv.Begin()
	require.NoError(t, err)
	require.NoError(t, txn.Put([]byte("k"), []byte("v")))
	require.NoError(t, txn.Rollback())

	txn2, _ := kv.Begin()
	_, err = txn2.Get([]byte("k"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVTxnClosedRejectsFurtherOps(t *testing.T) {
	kv := NewMemKVStore()
	txn, _ := kv.Begin()
	require.NoError(t, txn.Commit())
	assert.ErrorIs(t, txn.Put([]byte("k"), []byte("v")), ErrTxnClosed)
	assert.ErrorIs(t, txn.Commit(), ErrTxnClosed)
}

func TestKVScanByPrefix(t *testing.T) {
	kv := NewMemKVStore()
	txn, _ := kv.Begin()
	require.NoError(t, txn.Put([]byte("peer/alice"), []byte("a")))
	require.NoError(t, txn.Put([]byte("peer/bob"), []byte("b")))
	require.NoError(t, txn.Put([]byte("outbox/1"), []byte("o")))
	require.NoError(t, txn.Commit())

	txn2, _ := kv.Begin()
	rows, err := txn2.Scan([]byte("peer/"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []byte("peer/alice"), rows[0].Key)
	assert.Equal(t, []byte("peer/bob"), rows[1].Key)
}

func TestKVTxnIsolatedUntilCommit(t *testing.T) {
	kv := NewMemKVStore()
	base, _ := kv.Begin()
	require.NoError(t, base.Put([]byte("k"), []byte("v0")))
	require.NoError(t, base.Commit())

	txnA, _ := kv.Begin()
	require.NoError(t, txnA.Put([]byte("k"), []byte("v1")))

	txnB, _ := kv.Begin()
	v, err := txnB.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v0"), v, "uncommitted write from another txn must not be visible")

	require.NoError(t, txnA.Commit())
}

func TestMemIdentityStoreStaticKeyRoundTrip(t *testing.T) {
	s := NewMemIdentityStore()
	_, _, found, err := s.LoadStaticKey()
	require.NoError(t, err)
	assert.False(t, found)

	var priv, pub [32]byte
	priv[0], pub[0] = 1, 2
	require.NoError(t, s.SaveStaticKey(priv, pub))

	gotPriv, gotPub, found, err := s.LoadStaticKey()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, priv, gotPriv)
	assert.Equal(t, pub, gotPub)
}

func TestMemIdentityStorePeerRoundTrip(t *testing.T) {
	s := NewMemIdentityStore()
	rec := PeerRecord{DisplayName: "alice", LastSeenUnix: 1000}
	require.NoError(t, s.SavePeer("peer-1", rec))

	got, ok, err := s.LoadPeer("peer-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	require.NoError(t, s.DeletePeer("peer-1"))
	_, ok, err = s.LoadPeer("peer-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemIdentityStoreListPeers(t *testing.T) {
	s := NewMemIdentityStore()
	require.NoError(t, s.SavePeer("a", PeerRecord{DisplayName: "alice"}))
	require.NoError(t, s.SavePeer("b", PeerRecord{DisplayName: "bob"}))

	all, err := s.ListPeers()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEncryptedIdentityStoreRoundTrip(t *testing.T) {
	var key [32]byte
	key[0] = 0xAB
	inner := NewMemIdentityStore()
	enc := NewEncryptedIdentityStore(inner, key)

	rec := PeerRecord{DisplayName: "alice", LastSeenUnix: 42}
	require.NoError(t, enc.SavePeer("peer-1", rec))

	got, ok, err := enc.LoadPeer("peer-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestEncryptedIdentityStoreCiphertextDiffersFromPlaintext(t *testing.T) {
	var key [32]byte
	key[0] = 0xAB
	inner := NewMemIdentityStore()
	enc := NewEncryptedIdentityStore(inner, key)

	rec := PeerRecord{DisplayName: "super-secret-name"}
	require.NoError(t, enc.SavePeer("peer-1", rec))

	raw, ok, err := inner.LoadPeer("peer-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw.DisplayName, "super-secret-name")
}

func TestEncryptedIdentityStoreDetectsTamper(t *testing.T) {
	var key [32]byte
	key[0] = 0xAB
	inner := NewMemIdentityStore()
	enc := NewEncryptedIdentityStore(inner, key)

	require.NoError(t, enc.SavePeer("peer-1", PeerRecord{DisplayName: "alice"}))

	raw, _, _ := inner.LoadPeer("peer-1")
	tampered := []byte(raw.DisplayName)
	tampered[len(tampered)-1] ^= 0xFF
	require.NoError(t, inner.SavePeer("peer-1", PeerRecord{DisplayName: string(tampered)}))

	_, _, err := enc.LoadPeer("peer-1")
	assert.Error(t, err)
}

func TestEncryptedIdentityStoreRejectsCrossIDSwap(t *testing.T) {
	var key [32]byte
	key[0] = 0xAB
	inner := NewMemIdentityStore()
	enc := NewEncryptedIdentityStore(inner, key)

	require.NoError(t, enc.SavePeer("peer-1", PeerRecord{DisplayName: "alice"}))
	sealed, _, _ := inner.LoadPeer("peer-1")
	require.NoError(t, inner.SavePeer("peer-2", sealed))

	_, _, err := enc.LoadPeer("peer-2")
	assert.Error(t, err, "sealed record bound to peer-1 must not open under peer-2's id")
}

func TestEncryptedIdentityStoreDelegatesStaticKey(t *testing.T) {
	var key [32]byte
	inner := NewMemIdentityStore()
	enc := NewEncryptedIdentityStore(inner, key)

	var priv, pub [32]byte
	priv[0] = 9
	require.NoError(t, enc.SaveStaticKey(priv, pub))
	gotPriv, _, found, err := enc.LoadStaticKey()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, priv, gotPriv)
}
