package store

import (
	"crypto/rand"
	"encoding/json"
	"io"

	"github.com/opd-ai/meshmsg/cryptoprim"
)

// EncryptedIdentityStore wraps an IdentityStore so that every persisted
// peer record is sealed under a local-only key before it reaches the
// inner store, and opened (with tamper detection) on read. The static
// keypair itself is left to the inner store's own discretion since it is
// the root key this wrapper derives nothing from; callers that need the
// static key encrypted too should give the inner store its own
// OS-keychain-backed implementation.
//
// This adapts the teacher's AES-GCM-sealed secure-storage pattern to
// this module's own ChaCha20-Poly1305 primitive, so at-rest
// confidentiality reuses cryptoprim's AEAD instead of importing
// crypto/aes for a second cipher.
type EncryptedIdentityStore struct {
	inner IdentityStore
	key   [cryptoprim.KeySize]byte
}

// NewEncryptedIdentityStore wraps inner, sealing peer records under key.
// key must be derived by the caller (e.g. from a passphrase via a KDF)
// and kept outside of this package.
func NewEncryptedIdentityStore(inner IdentityStore, key [cryptoprim.KeySize]byte) *EncryptedIdentityStore {
	return &EncryptedIdentityStore{inner: inner, key: key}
}

func (s *EncryptedIdentityStore) LoadStaticKey() (priv, pub [32]byte, found bool, err error) {
	return s.inner.LoadStaticKey()
}

func (s *EncryptedIdentityStore) SaveStaticKey(priv, pub [32]byte) error {
	return s.inner.SaveStaticKey(priv, pub)
}

func (s *EncryptedIdentityStore) LoadPeer(id string) (PeerRecord, bool, error) {
	sealed, ok, err := s.inner.LoadPeer(id)
	if err != nil || !ok {
		return PeerRecord{}, ok, err
	}
	plaintext, err := s.open(sealed, id)
	if err != nil {
		return PeerRecord{}, false, err
	}
	var record PeerRecord
	if err := json.Unmarshal(plaintext, &record); err != nil {
		return PeerRecord{}, false, err
	}
	return record, true, nil
}

func (s *EncryptedIdentityStore) SavePeer(id string, record PeerRecord) error {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return err
	}
	sealed, err := s.seal(plaintext, id)
	if err != nil {
		return err
	}
	return s.inner.SavePeer(id, sealed)
}

func (s *EncryptedIdentityStore) DeletePeer(id string) error {
	return s.inner.DeletePeer(id)
}

func (s *EncryptedIdentityStore) ListPeers() (map[string]PeerRecord, error) {
	sealed, err := s.inner.ListPeers()
	if err != nil {
		return nil, err
	}
	out := make(map[string]PeerRecord, len(sealed))
	for id, rec := range sealed {
		plaintext, err := s.open(rec, id)
		if err != nil {
			continue
		}
		var record PeerRecord
		if err := json.Unmarshal(plaintext, &record); err != nil {
			continue
		}
		out[id] = record
	}
	return out, nil
}

// seal produces a PeerRecord whose DisplayName field carries nonce||ciphertext
// so the inner store's own PeerRecord shape can be reused as the sealed
// envelope without a parallel wire format. The peer id is bound as
// associated data so sealed records cannot be swapped between ids.
func (s *EncryptedIdentityStore) seal(plaintext []byte, id string) (PeerRecord, error) {
	var nonce [cryptoprim.NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return PeerRecord{}, err
	}
	ciphertext, err := cryptoprim.AEADSeal(s.key, nonce, []byte(id), plaintext)
	if err != nil {
		return PeerRecord{}, err
	}
	sealed := append(nonce[:], ciphertext...)
	return PeerRecord{DisplayName: string(sealed)}, nil
}

func (s *EncryptedIdentityStore) open(sealed PeerRecord, id string) ([]byte, error) {
	raw := []byte(sealed.DisplayName)
	if len(raw) < cryptoprim.NonceSize {
		return nil, ErrTamperedRecord
	}
	var nonce [cryptoprim.NonceSize]byte
	copy(nonce[:], raw[:cryptoprim.NonceSize])
	ciphertext := raw[cryptoprim.NonceSize:]
	plaintext, err := cryptoprim.AEADOpen(s.key, nonce, []byte(id), ciphertext)
	if err != nil {
		return nil, ErrTamperedRecord
	}
	return plaintext, nil
}
