package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/piivault/internal/crypto/domain"
	cryptoService "github.com/allisson/piivault/internal/crypto/service"
)

// RunCreateRootKey generates a 32-byte root key and prints the ROOT_KEYS configuration.
// When kmsProvider is set the key is wrapped with the keeper at kmsKeyURI before
// printing; otherwise the raw key is printed base64 encoded. If keyID is empty a default
// ID in format "root-key-YYYY-MM-DD" is used.
func RunCreateRootKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	keyID, kmsProvider, kmsKeyURI string,
) error {
	if keyID == "" {
		keyID = defaultRootKeyID()
	}

	encodedKey, err := newRootKeyEntry(ctx, kmsService, kmsProvider, kmsKeyURI)
	if err != nil {
		return err
	}

	logger.Info("root key generated", slog.String("root_key_id", keyID), slog.Bool("kms", kmsProvider != ""))

	_, _ = fmt.Fprintln(writer, "# Root Key Configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	printKMSConfig(writer, kmsProvider, kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "ROOT_KEYS=\"%s:%s\"\n", keyID, encodedKey)
	_, _ = fmt.Fprintf(writer, "ACTIVE_ROOT_KEY_ID=\"%s\"\n", keyID)

	return nil
}

// RunRotateRootKey generates a new root key and appends it to the existing ROOT_KEYS,
// making it the active one. Key versions created afterwards derive from the new root
// key; versions derived from older root keys stay readable until purged.
func RunRotateRootKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	keyID, kmsProvider, kmsKeyURI, existingRootKeys, existingActiveKeyID string,
) error {
	if existingRootKeys == "" {
		return fmt.Errorf("ROOT_KEYS is not set - cannot rotate without existing keys")
	}
	if existingActiveKeyID == "" {
		return fmt.Errorf("ACTIVE_ROOT_KEY_ID is not set")
	}
	if keyID == "" {
		keyID = defaultRootKeyID()
	}
	if keyID == existingActiveKeyID {
		return fmt.Errorf("new root key id %q equals the active one", keyID)
	}

	encodedKey, err := newRootKeyEntry(ctx, kmsService, kmsProvider, kmsKeyURI)
	if err != nil {
		return err
	}

	logger.Info("root key rotated",
		slog.String("previous_root_key_id", existingActiveKeyID),
		slog.String("root_key_id", keyID),
	)

	_, _ = fmt.Fprintln(writer, "# Root Key Rotation")
	_, _ = fmt.Fprintln(writer, "# Update these environment variables in your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	printKMSConfig(writer, kmsProvider, kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "ROOT_KEYS=\"%s,%s:%s\"\n", existingRootKeys, keyID, encodedKey)
	_, _ = fmt.Fprintf(writer, "ACTIVE_ROOT_KEY_ID=\"%s\"\n", keyID)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintln(writer, "# Rotation Workflow:")
	_, _ = fmt.Fprintln(writer, "# 1. Update the above environment variables and restart the application")
	_, _ = fmt.Fprintln(writer, "# 2. Create a key version under the new root key: app rotate-keys --reencrypt")
	_, _ = fmt.Fprintln(writer, "# 3. Purge the retired key versions: app purge-key --version <n>")
	_, _ = fmt.Fprintf(writer, "# 4. Remove the old root key: ROOT_KEYS=\"%s:%s\"\n", keyID, encodedKey)

	return nil
}

func defaultRootKeyID() string {
	return fmt.Sprintf("root-key-%s", time.Now().Format("2006-01-02"))
}

// newRootKeyEntry generates a root key and returns the base64 payload of its ROOT_KEYS
// entry. The raw key is zeroed before returning.
func newRootKeyEntry(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	kmsProvider, kmsKeyURI string,
) (string, error) {
	if kmsProvider != "" && kmsKeyURI == "" {
		return "", fmt.Errorf("--kms-key-uri is required when --kms-provider is set")
	}

	rootKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(rootKey); err != nil {
		return "", fmt.Errorf("failed to generate root key: %w", err)
	}
	defer cryptoDomain.Zero(rootKey)

	if kmsProvider == "" {
		return base64.StdEncoding.EncodeToString(rootKey), nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, rootKey)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt root key with KMS: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func printKMSConfig(writer io.Writer, kmsProvider, kmsKeyURI string) {
	if kmsProvider == "" {
		_, _ = fmt.Fprintln(writer, "# Plaintext mode: never use unwrapped root keys in production")
		return
	}
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
}
