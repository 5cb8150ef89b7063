package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type PortraitSource string

const (
	PortraitSourceUpload  PortraitSource = "upload"
	PortraitSourceCapture PortraitSource = "capture"
	PortraitSourceSample  PortraitSource = "sample"
)

// Portrait is the user's photo for one session. Its ID is derived from the
// encoded bytes and partitions every cached try-on result: replacing the
// portrait means a new identity, and results never cross identities.
type Portrait struct {
	ID        string         `json:"id"`
	Bytes     []byte         `json:"data"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Source    PortraitSource `json:"source"`
	CreatedAt time.Time      `json:"createdAt"`
}

func NewPortrait(data []byte, width, height int, source PortraitSource) *Portrait {
	return &Portrait{
		ID:        PortraitIdentity(data),
		Bytes:     data,
		Width:     width,
		Height:    height,
		Source:    source,
		CreatedAt: time.Now(),
	}
}

// PortraitIdentity hashes the encoded payload into the cache partition key.
func PortraitIdentity(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}
