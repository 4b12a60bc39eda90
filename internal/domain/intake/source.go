package intake

import (
	"fmt"
	"strings"
)

// Source names the origin system a submission claims its bytes live in. The
// interpretation of a submission's source reference depends on this tag.
type Source string

const (
	SourceCloudDrive   Source = "cloud_drive"
	SourceEmail        Source = "email"
	SourceCourtGateway Source = "court_gateway"
	SourceClientPortal Source = "client_portal"
	SourceDirectURL    Source = "direct_url"
	SourceStagingBlob  Source = "staging_blob"
)

var allowedSources = map[Source]struct{}{
	SourceCloudDrive:   {},
	SourceEmail:        {},
	SourceCourtGateway: {},
	SourceClientPortal: {},
	SourceDirectURL:    {},
	SourceStagingBlob:  {},
}

func ParseSource(raw string) (Source, error) {
	candidate := Source(strings.ToLower(strings.TrimSpace(raw)))
	if candidate == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownSource)
	}
	if _, ok := allowedSources[candidate]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSource, raw)
	}
	return candidate, nil
}

// SourceProfile fixes score and base priority for origins that auto-qualify
// regardless of hints.
type SourceProfile struct {
	Score    float64
	Priority int
}

var trustedSources = map[Source]SourceProfile{
	SourceCourtGateway: {Score: 0.97, Priority: 95},
	SourceClientPortal: {Score: 0.90, Priority: 80},
}

// TrustedSourceProfile reports the auto-qualify profile for high-trust
// origins (court filing gateways, client portals).
func TrustedSourceProfile(source Source) (SourceProfile, bool) {
	profile, ok := trustedSources[source]
	return profile, ok
}
