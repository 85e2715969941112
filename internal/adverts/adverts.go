// Package adverts manages the advertiser channel list offered to users who
// exceed their download quota. The list is a JSON array on disk, loaded
// once at startup and read-only for the lifetime of the bot process;
// mutation happens through the manage-channels CLI against the file.
package adverts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
)

// Channel is a promotional destination offered when the quota is exceeded.
type Channel struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Set is an immutable collection of advertiser channels.
type Set struct {
	channels []Channel
}

// Load reads the channel list from path. A missing file yields an empty set
// without error; the caller is expected to log other failures and degrade
// to an empty set as well.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Set{}, nil
		}

		return &Set{}, fmt.Errorf("read advertiser channels: %w", err)
	}

	var channels []Channel
	if err := json.Unmarshal(data, &channels); err != nil {
		return &Set{}, fmt.Errorf("parse advertiser channels: %w", err)
	}

	return &Set{channels: channels}, nil
}

// NewSet builds a set from the given channels. Used by tests and the CLI.
func NewSet(channels []Channel) *Set {
	return &Set{channels: channels}
}

// Pick selects one channel uniformly at random. ok is false when the set
// is empty; callers must skip the fallback offer in that case.
func (s *Set) Pick() (Channel, bool) {
	if len(s.channels) == 0 {
		return Channel{}, false
	}

	return s.channels[rand.Intn(len(s.channels))], true
}

// Len returns the number of channels in the set.
func (s *Set) Len() int {
	return len(s.channels)
}

// Channels returns a copy of the channel list.
func (s *Set) Channels() []Channel {
	out := make([]Channel, len(s.channels))
	copy(out, s.channels)

	return out
}

// Save rewrites the channel list at path wholesale.
func Save(path string, channels []Channel) error {
	data, err := json.MarshalIndent(channels, "", "  ")
	if err != nil {
		return fmt.Errorf("encode advertiser channels: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write advertiser channels: %w", err)
	}

	return nil
}
