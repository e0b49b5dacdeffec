package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/compute/metadata"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// SecretManager resolves secrets from Google Secret Manager, using the
// metadata service for the project ID. It only works inside a GCP runtime.
type SecretManager struct{}

func (SecretManager) Secret(ctx context.Context, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("new secret manager client: %w", err)
	}
	defer client.Close()

	projectID, err := metadata.ProjectIDWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("get project id: %w", err)
	}

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret version: %w", err)
	}

	return string(resp.GetPayload().GetData()), nil
}

// EnvResolver resolves secrets from environment variables, mapping a secret
// name like "neon-database-connection-string" to
// NEON_DATABASE_CONNECTION_STRING.
type EnvResolver struct{}

func (EnvResolver) Secret(_ context.Context, name string) (string, error) {
	key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	if v := os.Getenv(key); v != "" {
		return v, nil
	}

	return "", fmt.Errorf("secret %q not set in environment", name)
}
