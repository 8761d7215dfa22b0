package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	authService "github.com/allisson/linkvault/internal/auth/service"
)

// RunCreateSigningKey generates a master signing secret and prints it as an
// AUTH_SIGNING_KEY assignment. When kmsKeyURI is set the secret is encrypted with
// that KMS key first and the KMS settings are printed alongside it. The secret is
// zeroed before returning.
//
// For local development use kmsProvider="localsecrets" with
// kmsKeyURI="base64key://...". Never use localsecrets in production.
func RunCreateSigningKey(
	ctx context.Context,
	kmsService authService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider string,
	kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf("--kms-provider and --kms-key-uri must be set together")
	}

	secret, err := authService.GenerateSigningSecret()
	if err != nil {
		return err
	}
	defer authService.Zero(secret)

	if kmsKeyURI == "" {
		logger.Warn("signing key is printed in plaintext; consider wrapping it with a KMS key")
		_, err = fmt.Fprintf(writer,
			"# Copy this environment variable to your .env file or secrets manager\nAUTH_SIGNING_KEY=\"%s\"\n",
			base64.StdEncoding.EncodeToString(secret),
		)
		return err
	}

	logger.Info("encrypting signing key with KMS", slog.String("kms_provider", kmsProvider))

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt signing key with KMS: %w", err)
	}

	_, err = fmt.Fprintf(writer,
		"# Copy these environment variables to your .env file or secrets manager\nKMS_PROVIDER=\"%s\"\nKMS_KEY_URI=\"%s\"\nAUTH_SIGNING_KEY=\"%s\"\n",
		kmsProvider,
		kmsKeyURI,
		base64.StdEncoding.EncodeToString(ciphertext),
	)
	return err
}
