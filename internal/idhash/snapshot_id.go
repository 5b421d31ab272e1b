// Package idhash derives deterministic record identifiers so that
// re-running a computation never mints a second ID for the same key.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"metabolic-lab/internal/domain"
)

// SnapshotIDPrefix marks expenditure snapshot identifiers.
const SnapshotIDPrefix = "snap_"

// ComputeSnapshotID computes a deterministic snapshot_id using SHA256.
// Formula: "snap_" + SHA256(as_of|window_days)[:16]
// The truncated hex digest keeps IDs short enough for log lines while
// staying collision-free for one snapshot per day and window.
func ComputeSnapshotID(asOf domain.Day, windowDays int) string {
	data := fmt.Sprintf("%s|%d", string(asOf), windowDays)
	hash := sha256.Sum256([]byte(data))
	return SnapshotIDPrefix + hex.EncodeToString(hash[:])[:16]
}
