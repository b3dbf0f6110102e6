package jwtx

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aussiebroadwan/lunch/pkg/cryptox"
)

// KeyManager owns the in-memory signing keys of the local identity
// provider. Keys are never persisted, so tokens do not survive a restart.
//
// One key signs at a time. Rotate replaces it; the previous public keys
// stay in the KeySet, up to Retain of them, so tokens already issued keep
// verifying until they expire.
type KeyManager struct {
	KeySet   *KeySet
	Verifier Verifier

	mu      sync.RWMutex
	active  Signer
	retired []string
	retain  int
}

// KeyManagerOptions configures NewKeyManager.
type KeyManagerOptions struct {
	VerifyOptions

	// Retain is how many rotated-out keys remain valid for verification.
	// Defaults to 2.
	Retain int
}

// NewKeyManager generates a first signing key.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: issuer is required")
	}
	if opts.Retain <= 0 {
		opts.Retain = 2
	}

	ks := NewKeySet()
	km := &KeyManager{
		KeySet:   ks,
		Verifier: NewVerifierEdDSA(ks, opts.VerifyOptions),
		retain:   opts.Retain,
	}
	if err := km.Rotate(); err != nil {
		return nil, err
	}
	return km, nil
}

// Rotate installs a fresh signing key.
func (km *KeyManager) Rotate() error {
	kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return fmt.Errorf("jwtx: key id: %w", err)
	}
	signer, err := GenerateSignerEdDSA("lunch-" + kid)
	if err != nil {
		return err
	}
	if err := km.KeySet.AddSigner(signer); err != nil {
		return err
	}

	km.mu.Lock()
	defer km.mu.Unlock()

	if km.active != nil {
		km.retired = append(km.retired, km.active.KID())
	}
	km.active = signer

	for len(km.retired) > km.retain {
		km.KeySet.Remove(km.retired[0])
		km.retired = km.retired[1:]
	}
	return nil
}

// Signer returns the active signing key.
func (km *KeyManager) Signer() Signer {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return km.active
}

// Sign signs claims with the active key.
func (km *KeyManager) Sign(claims Claims) (string, error) {
	return km.Signer().Sign(claims)
}

func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}
