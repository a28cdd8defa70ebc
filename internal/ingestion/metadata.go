package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/jkaplan/jobtrail/internal/diagnostics"
)

// SourceMetadata captures where a parse attempt's input came from
type SourceMetadata struct {
	Kind      string `json:"kind"` // "plain_text", "html", "file"
	FileName  string `json:"file_name,omitempty"`
	FileSize  int64  `json:"file_size,omitempty"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 hex digest of the cleaned text
}

// NewSourceMetadata creates metadata for an input document with the current timestamp
func NewSourceMetadata(kind, fileName string, fileSize int64, content string) *SourceMetadata {
	return &SourceMetadata{
		Kind:      kind,
		FileName:  fileName,
		FileSize:  fileSize,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// SourceInfo converts the metadata into the debug-report source block
func (m *SourceMetadata) SourceInfo() diagnostics.SourceInfo {
	return diagnostics.SourceInfo{
		Kind:     m.Kind,
		FileName: m.FileName,
		FileSize: m.FileSize,
		Hash:     m.Hash,
	}
}

// computeHash computes the SHA256 hash of content and returns a hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
