package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.etcd.io/bbolt"
	"scribe/config"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var (
	keySchemaVersion = []byte("schema_version")
	keyConfigHash    = []byte("config_hash")
)

// SchemaInfo stores schema version and configuration hash.
type SchemaInfo struct {
	Version    int    `json:"version"`
	ConfigHash string `json:"config_hash"`
}

// GetSchemaInfo retrieves the current schema info from the database.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStats)
		if b == nil {
			return nil
		}
		if data := b.Get(keySchemaVersion); data != nil {
			if err := json.Unmarshal(data, &info.Version); err != nil {
				info.Version = 0
			}
		}
		if data := b.Get(keyConfigHash); data != nil {
			info.ConfigHash = string(data)
		}
		return nil
	})
	return &info, err
}

// SetSchemaInfo stores the schema info in the database.
func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStats)
		versionData, err := json.Marshal(info.Version)
		if err != nil {
			return err
		}
		if err := b.Put(keySchemaVersion, versionData); err != nil {
			return err
		}
		return b.Put(keyConfigHash, []byte(info.ConfigHash))
	})
}

// ComputeConfigHash hashes the settings that change what a summary looks like.
// A different hash means cached summaries are stale.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		Backend     string  `json:"backend"`
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		Context     int     `json:"context"`
		Reserved    int     `json:"reserved"`
		Encoding    string  `json:"encoding"`
		PromptsDir  string  `json:"prompts_dir"`
	}{
		Backend:     cfg.Model.Backend,
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		Context:     cfg.Model.ContextLimit,
		Reserved:    cfg.Model.ReservedSummaryBudget,
		Encoding:    cfg.Model.Encoding,
		PromptsDir:  cfg.Pipeline.PromptsDir,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// MigrationResult describes the result of a migration check.
type MigrationResult struct {
	NeedsMigration bool
	NeedsRebuild   bool
	OldVersion     int
	NewVersion     int
	Reason         string
}

// CheckMigration checks if migration or rebuild is needed.
func (s *BoltStore) CheckMigration(cfg *config.Config) (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.NeedsMigration = true
		result.Reason = "initializing schema version"
	case info.Version < CurrentSchemaVersion:
		result.NeedsMigration = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	case info.Version > CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("cache created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
		return result, nil
	}

	if info.ConfigHash != "" && info.ConfigHash != ComputeConfigHash(cfg) {
		result.NeedsRebuild = true
		result.Reason = "model configuration changed"
	}

	return result, nil
}

// Migrate brings the schema to the current version and records the config hash.
func (s *BoltStore) Migrate(cfg *config.Config) error {
	return s.SetSchemaInfo(&SchemaInfo{
		Version:    CurrentSchemaVersion,
		ConfigHash: ComputeConfigHash(cfg),
	})
}

// Clear removes all cached summaries.
func (s *BoltStore) Clear(context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketSummaries); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucketSummaries)
		return err
	})
}

// Open opens the store at path and discards its contents when the schema or
// the model configuration has changed since it was written. Entries older
// than the TTL are pruned.
func Open(path string, cfg *config.Config) (*BoltStore, error) {
	st, err := NewBoltStore(path, cfg.Cache.TTL)
	if err != nil {
		return nil, err
	}

	result, err := st.CheckMigration(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}
	if result.NeedsRebuild {
		slog.Info("clearing summary cache", "reason", result.Reason)
		if err := st.Clear(context.Background()); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	if result.NeedsRebuild || result.NeedsMigration {
		if err := st.Migrate(cfg); err != nil {
			st.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	removed, err := st.Prune(context.Background())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to prune cache: %w", err)
	}
	if removed > 0 {
		slog.Info("pruned expired summaries", "removed", removed)
	}
	return st, nil
}
