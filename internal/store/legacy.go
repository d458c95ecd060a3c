package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nhle/obra-tracker/internal/model"
)

// ImportResult summarizes a legacy import.
type ImportResult struct {
	Imported int
	Skipped  []SkippedKey
}

// SkippedKey is a legacy entry that could not be imported.
type SkippedKey struct {
	Key    string
	Reason string
}

// ImportLegacy loads a browser-era JSON object mapping
// "segment-project-stage[-real]" to dates into s. The resolver is used to
// split segment and project names containing dashes; entries it cannot
// resolve, or whose values are not dates, are skipped and reported.
func ImportLegacy(
	ctx context.Context,
	s OverrideStore,
	blob []byte,
	resolver model.ProjectResolver,
) (ImportResult, error) {
	var raw map[string]string
	if err := json.Unmarshal(blob, &raw); err != nil {
		return ImportResult{}, fmt.Errorf("parsing legacy overrides: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var res ImportResult
	for _, k := range keys {
		key, err := model.ParseLegacyKey(k, resolver)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedKey{Key: k, Reason: err.Error()})
			continue
		}
		if err := s.Set(ctx, key, raw[k]); err != nil {
			res.Skipped = append(res.Skipped, SkippedKey{Key: k, Reason: err.Error()})
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ExportLegacy renders every override in the browser-era flat format.
func ExportLegacy(ctx context.Context, s OverrideStore) ([]byte, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	flat := make(map[string]string, len(all))
	for k, v := range all {
		flat[k.LegacyString()] = v.String()
	}
	data, err := json.MarshalIndent(flat, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding legacy overrides: %w", err)
	}
	return data, nil
}
