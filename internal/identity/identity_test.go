package identity

import (
	"testing"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/spf13/afero"
)

func peerIDFromKey(priv crypto.PrivKey) (peer.ID, error) {
	return peer.IDFromPrivateKey(priv)
}

func TestLoadOrCreateEphemeral(t *testing.T) {
	priv, err := LoadOrCreate("")
	if err != nil {
		t.Fatalf("LoadOrCreate(\"\") returned error: %v", err)
	}
	if priv == nil {
		t.Fatalf("expected a non-nil ephemeral key")
	}
}

func TestLoadOrCreatePersistsAndReloadsSameIdentity(t *testing.T) {
	FS = afero.NewMemMapFs()
	defer func() { FS = afero.NewOsFs() }()

	const path = "/tmp/splash-identity.bin"

	first, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("first LoadOrCreate returned error: %v", err)
	}

	second, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("second LoadOrCreate returned error: %v", err)
	}

	firstID, err := peerIDFromKey(first)
	if err != nil {
		t.Fatalf("peer id from first key: %v", err)
	}
	secondID, err := peerIDFromKey(second)
	if err != nil {
		t.Fatalf("peer id from second key: %v", err)
	}

	if firstID != secondID {
		t.Errorf("expected identical PeerId across restarts, got %s and %s", firstID, secondID)
	}
}
