package workflowengine

import (
	"errors"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Profile is the operator-tunable routing table: which downstream workflow a
// qualified document starts, chosen by priority band and doc-type keyword.
type Profile struct {
	Version int     `toml:"version"`
	Default string  `toml:"default"`
	Routes  []Route `toml:"routes"`
}

type Route struct {
	Workflow    string   `toml:"workflow"`
	MinPriority int      `toml:"min_priority"`
	DocTypes    []string `toml:"doc_types"`
}

func LoadProfile(profileFile string) (Profile, error) {
	path := strings.TrimSpace(profileFile)
	if path == "" {
		return Profile{}, errors.New("workflow profile file is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}

	var profile Profile
	if err := toml.Unmarshal(raw, &profile); err != nil {
		return Profile{}, err
	}
	if err := validateProfile(profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func validateProfile(profile Profile) error {
	if profile.Version != 1 {
		return errors.New("unsupported workflow profile version: expected version = 1")
	}
	if strings.TrimSpace(profile.Default) == "" {
		return errors.New("default workflow is required")
	}
	for _, route := range profile.Routes {
		if strings.TrimSpace(route.Workflow) == "" {
			return errors.New("routes require a workflow name")
		}
		if route.MinPriority < 0 || route.MinPriority > 100 {
			return errors.New("routes.min_priority must be within 0..100")
		}
	}
	return nil
}

// Resolve picks the first route matching the priority band and, when the
// route constrains doc types, the matched keyword. Falls back to the default
// workflow.
func (p Profile) Resolve(priority int, docTypeKeyword string) string {
	for _, route := range p.Routes {
		if priority < route.MinPriority {
			continue
		}
		if len(route.DocTypes) > 0 && !containsFold(route.DocTypes, docTypeKeyword) {
			continue
		}
		return route.Workflow
	}
	return p.Default
}

func containsFold(list []string, value string) bool {
	needle := strings.ToLower(strings.TrimSpace(value))
	if needle == "" {
		return false
	}
	for _, item := range list {
		if strings.ToLower(strings.TrimSpace(item)) == needle {
			return true
		}
	}
	return false
}
