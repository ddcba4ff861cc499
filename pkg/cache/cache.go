// Package cache provides content-addressed caching for pipeline stages.
//
// Three backends share one interface: a file cache for CLI runs, a redis
// cache for server deployments, and a null cache that disables caching
// entirely. Keys are built by a [Keyer] from content hashes plus the
// options that influenced the stage, so a changed canvas size or theme
// never serves a stale artifact.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Stage TTLs. Keys are content-addressed, so entries never go stale in
// the correctness sense; the TTLs only bound disk and redis growth.
const (
	TTLPlan     = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts carries the layout options that affect cached results.
type LayoutKeyOpts struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ArtifactKeyOpts carries the render options that affect cached artifacts.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Engine    string `json:"engine"`
	Theme     string `json:"theme"`
	ShowTitle bool   `json:"show_title"`
}

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// PlanKey keys a parsed plan by the hash of its spec text.
	PlanKey(specHash string) string
	// LayoutKey keys a computed layout by plan hash and layout options.
	LayoutKey(planHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by layout hash and render
	// options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key builder.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key builder.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

func (k *DefaultKeyer) PlanKey(specHash string) string {
	return "plan:" + specHash
}

func (k *DefaultKeyer) LayoutKey(planHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", planHash, opts)
}

func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// hashKey builds a key of the form prefix:sha256(parts).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash computes the SHA-256 hex digest of data. Pipeline stages use it to
// content-address their inputs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
