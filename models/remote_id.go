package models

import (
	"fmt"
	"strings"
)

// RemoteID is a tagged remote-token variant: either a single opaque token
// or a composite pair of two opaque halves joined by "|". Both halves of a
// composite are caller-opaque and must be non-empty.
type RemoteID struct {
	first     string
	second    string
	composite bool
}

// SingleToken builds a plain single-token remote id.
func SingleToken(token string) RemoteID {
	return RemoteID{first: token}
}

// CompositePair builds a composite remote id from two opaque halves.
func CompositePair(first, second string) RemoteID {
	return RemoteID{first: first, second: second, composite: true}
}

// ParseRemoteID parses a stored remote id string. A value containing "|"
// must split into exactly two non-empty halves.
func ParseRemoteID(s string) (RemoteID, error) {
	if s == "" {
		return RemoteID{}, fmt.Errorf("remote id is empty")
	}
	if !strings.Contains(s, "|") {
		return SingleToken(s), nil
	}
	parts := strings.Split(s, "|")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RemoteID{}, fmt.Errorf("malformed composite remote id %q", s)
	}
	return CompositePair(parts[0], parts[1]), nil
}

// String formats the remote id back into its stored representation.
func (r RemoteID) String() string {
	if r.composite {
		return r.first + "|" + r.second
	}
	return r.first
}

// IsComposite reports whether the id carries two halves.
func (r RemoteID) IsComposite() bool { return r.composite }

// Token returns the single token. Valid only for non-composite ids.
func (r RemoteID) Token() string { return r.first }

// Pair returns both halves of a composite id.
func (r RemoteID) Pair() (string, string) { return r.first, r.second }
