// Package devices hashes channel identifiers for test-device matching.
// Rules store hashed identifiers so that raw channel IDs never appear in
// audience documents.
package devices

import (
	"crypto/sha256"
	"encoding/base64"
)

// HashChannelID returns the hash of a raw channel identifier in the form
// stored in a rule's test_devices list.
func HashChannelID(channelID string) string {
	sum := sha256.Sum256([]byte(channelID))
	return base64.StdEncoding.EncodeToString(sum[:])
}
