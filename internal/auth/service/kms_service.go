package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"gocloud.dev/secrets"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for keyURI.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (KeyKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// LoadSigningSecret decodes the base64 master signing secret. When keyURI is
// set, the decoded bytes are KMS ciphertext and are decrypted first.
func LoadSigningSecret(ctx context.Context, kms KMSService, encoded, keyURI string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, authDomain.ErrInvalidSigningSecret
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing secret: %w", err)
	}

	if keyURI == "" {
		if len(raw) < authDomain.MinSigningSecretLength {
			return nil, authDomain.ErrInvalidSigningSecret
		}
		return raw, nil
	}

	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	secret, err := keeper.Decrypt(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt signing secret with KMS: %w", err)
	}
	if len(secret) < authDomain.MinSigningSecretLength {
		return nil, authDomain.ErrInvalidSigningSecret
	}
	return secret, nil
}
