package model

import (
	"fmt"
	"strings"
)

// OverrideKind distinguishes planned-date overrides from actual-date ones.
type OverrideKind string

const (
	KindPlanned OverrideKind = "planned"
	KindActual  OverrideKind = "actual"
)

// legacyActualSuffix marks actual-date keys in the browser-era key format.
const legacyActualSuffix = "-real"

// ParseOverrideKind accepts "planned"/"actual" and the legacy "real" alias.
func ParseOverrideKind(s string) (OverrideKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "planned", "":
		return KindPlanned, nil
	case "actual", "real":
		return KindActual, nil
	default:
		return "", fmt.Errorf("unknown override kind %q", s)
	}
}

// OverrideKey identifies a single user-entered date.
type OverrideKey struct {
	Segment Segment      `json:"segment" yaml:"segment"`
	Project string       `json:"project" yaml:"project"`
	Stage   Stage        `json:"stage" yaml:"stage"`
	Kind    OverrideKind `json:"kind" yaml:"kind"`
}

// Validate checks that every component of the key is populated.
func (k OverrideKey) Validate() error {
	switch {
	case strings.TrimSpace(string(k.Segment)) == "":
		return fmt.Errorf("%w: empty segment", ErrInvalidKey)
	case strings.TrimSpace(k.Project) == "":
		return fmt.Errorf("%w: empty project", ErrInvalidKey)
	case !k.Stage.Valid():
		return fmt.Errorf("%w: unknown stage %q", ErrInvalidKey, k.Stage)
	case k.Kind != KindPlanned && k.Kind != KindActual:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidKey, k.Kind)
	}
	return nil
}

// LegacyString renders the key as "segment-project-stage", with a "-real"
// suffix for actual dates.
func (k OverrideKey) LegacyString() string {
	s := fmt.Sprintf("%s-%s-%s", k.Segment, k.Project, k.Stage)
	if k.Kind == KindActual {
		s += legacyActualSuffix
	}
	return s
}

func (k OverrideKey) String() string {
	return fmt.Sprintf("%s / %s / %s (%s)", k.Segment, k.Project, k.Stage, k.Kind)
}

// ProjectResolver reports whether a segment/project pair is known. It is
// used to split legacy keys whose names contain dashes.
type ProjectResolver interface {
	HasProject(segment Segment, project string) bool
}

// ParseLegacyKey splits a "segment-project-stage[-real]" key. When resolver
// is non-nil every split point is tried and the first known pair wins;
// otherwise the segment is taken to end at the first dash.
func ParseLegacyKey(raw string, resolver ProjectResolver) (OverrideKey, error) {
	key := OverrideKey{Kind: KindPlanned}
	rest := raw
	if strings.HasSuffix(rest, legacyActualSuffix) {
		key.Kind = KindActual
		rest = strings.TrimSuffix(rest, legacyActualSuffix)
	}

	found := false
	for _, st := range stages {
		suffix := "-" + string(st)
		if strings.HasSuffix(rest, suffix) {
			key.Stage = st
			rest = strings.TrimSuffix(rest, suffix)
			found = true
			break
		}
	}
	if !found {
		return OverrideKey{}, fmt.Errorf("%w: no stage in %q", ErrInvalidKey, raw)
	}

	for i := 0; i < len(rest); i++ {
		if rest[i] != '-' {
			continue
		}
		seg, proj := Segment(rest[:i]), rest[i+1:]
		if resolver == nil || resolver.HasProject(seg, proj) {
			key.Segment = seg
			key.Project = proj
			return key, key.Validate()
		}
	}
	return OverrideKey{}, fmt.Errorf("%w: cannot resolve segment/project in %q", ErrInvalidKey, raw)
}
