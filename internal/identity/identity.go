// Package identity implements the Identity Store (spec §4.1, C1): loading
// or creating the node's long-lived secp256k1 private key.
package identity

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/spf13/afero"

	"github.com/dexie-space/splash/internal/logger"
)

var zlog = logger.New("identity")

// FS is the filesystem used to load and persist the identity key. Tests
// may swap this for an in-memory afero.Fs.
var FS afero.Fs = afero.NewOsFs()

// LoadOrCreate implements §4.1's load_or_create operation. When path is
// empty, a fresh ephemeral key is returned and nothing is written. When
// path points to an existing file, its bytes are unmarshalled as a
// libp2p-serialized private key. When path is non-empty but does not
// exist, a fresh key is generated and persisted there.
//
// Any failure here is a FatalStartup error per spec §7.
func LoadOrCreate(path string) (crypto.PrivKey, error) {
	if path == "" {
		priv, _, err := crypto.GenerateSecp256k1Key(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate ephemeral identity: %w", err)
		}
		zlog.Info("using ephemeral identity, nothing will be persisted")
		return priv, nil
	}

	exists, err := afero.Exists(FS, path)
	if err != nil {
		return nil, fmt.Errorf("stat identity file %s: %w", path, err)
	}

	if exists {
		raw, err := afero.ReadFile(FS, path)
		if err != nil {
			return nil, fmt.Errorf("read identity file %s: %w", path, err)
		}
		priv, err := crypto.UnmarshalPrivateKey(raw)
		if err != nil {
			return nil, fmt.Errorf("unmarshal identity key from %s: %w", path, err)
		}
		zlog.Info("loaded existing identity")
		return priv, nil
	}

	priv, _, err := crypto.GenerateSecp256k1Key(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate identity: %w", err)
	}
	if err := Persist(path, priv); err != nil {
		return nil, err
	}
	zlog.Info("generated and persisted new identity")
	return priv, nil
}

// Persist writes priv to path using the networking library's canonical
// serialization, matching what LoadOrCreate reads back.
func Persist(path string, priv crypto.PrivKey) error {
	raw, err := crypto.MarshalPrivateKey(priv)
	if err != nil {
		return fmt.Errorf("marshal identity key: %w", err)
	}
	if err := afero.WriteFile(FS, path, raw, os.FileMode(0o600)); err != nil {
		return fmt.Errorf("write identity file %s: %w", path, err)
	}
	return nil
}
