package secrets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// RefPrefix marks a supplier credential that is stored in Secret Manager
// instead of the database. The remainder of the value is the secret id.
const RefPrefix = "gcp-secret://"

// IsRef reports whether a credential value is a Secret Manager reference.
func IsRef(value string) bool {
	return strings.HasPrefix(value, RefPrefix)
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// Resolver resolves gcp-secret:// credential references against Google Cloud
// Secret Manager with a short-lived in-process cache.
type Resolver struct {
	client    *secretmanager.Client
	projectID string
	cache     map[string]*cacheEntry
	cacheMu   sync.RWMutex
	cacheTTL  time.Duration
}

// NewResolver creates a Secret Manager backed resolver.
func NewResolver(ctx context.Context, projectID string) (*Resolver, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}

	return &Resolver{
		client:    client,
		projectID: projectID,
		cache:     make(map[string]*cacheEntry),
		cacheTTL:  5 * time.Minute,
	}, nil
}

// Close closes the Secret Manager client
func (r *Resolver) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// Resolve returns the credential value behind a reference. Plain values pass
// through untouched so callers can resolve unconditionally.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	if !IsRef(value) {
		return value, nil
	}
	secretID := strings.TrimPrefix(value, RefPrefix)

	r.cacheMu.RLock()
	if entry, ok := r.cache[secretID]; ok && time.Now().Before(entry.expiresAt) {
		r.cacheMu.RUnlock()
		return entry.value, nil
	}
	r.cacheMu.RUnlock()

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", r.projectID, sanitizeSecretID(secretID))
	result, err := r.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", secretID, err)
	}

	resolved := string(result.Payload.Data)

	r.cacheMu.Lock()
	r.cache[secretID] = &cacheEntry{value: resolved, expiresAt: time.Now().Add(r.cacheTTL)}
	r.cacheMu.Unlock()

	return resolved, nil
}

// InvalidateCache removes a secret from the cache
func (r *Resolver) InvalidateCache(secretID string) {
	r.cacheMu.Lock()
	delete(r.cache, secretID)
	r.cacheMu.Unlock()
}

// sanitizeSecretID removes or replaces invalid characters for GCP secret IDs.
// Secret IDs can only contain alphanumeric characters, hyphens, and underscores.
func sanitizeSecretID(input string) string {
	var result strings.Builder
	for _, c := range input {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result.WriteRune(c)
		} else {
			result.WriteRune('-')
		}
	}
	return result.String()
}
