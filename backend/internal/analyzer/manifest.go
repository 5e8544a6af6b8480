package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
	"repograph/backend/internal/constants"
	"repograph/backend/internal/github"
	"repograph/backend/internal/graph"
)

// Manifest outcomes reported in Stats.ManifestStatus
const (
	ManifestAbsent      = "absent"
	ManifestEmpty       = "empty"
	ManifestParsed      = "parsed"
	ManifestFetchFailed = "fetch_failed"
	ManifestParseFailed = "parse_failed"
)

var errInvalidManifest = errors.New("package.json is not valid JSON")

// readManifest locates the root package.json and returns its declared
// package names. Every failure degrades to an empty list; the status says why.
func (s *Service) readManifest(ctx context.Context, ref github.RepoRef, entries []graph.TreeEntry, log *zap.Logger) ([]string, string) {
	var manifest *graph.TreeEntry
	for i := range entries {
		if entries[i].Path == constants.ManifestPath && entries[i].IsBlob() {
			manifest = &entries[i]
			break
		}
	}
	if manifest == nil {
		return nil, ManifestAbsent
	}

	content, err := s.fetchEntry(ctx, ref, *manifest)
	if err != nil {
		log.Warn("Failed to fetch package.json", zap.Error(err))
		return nil, ManifestFetchFailed
	}

	names, err := DependencyNames(content)
	if err != nil {
		log.Warn("Failed to parse package.json", zap.Error(err))
		return nil, ManifestParseFailed
	}
	if len(names) == 0 {
		return nil, ManifestEmpty
	}
	return names, ManifestParsed
}

// DependencyNames returns the keys of "dependencies" followed by the keys of
// "devDependencies" in document order, first occurrence wins. Missing or
// non-object sections contribute nothing.
func DependencyNames(content string) ([]string, error) {
	if !json.Valid([]byte(content)) {
		return nil, errInvalidManifest
	}

	sections := map[string]json.RawMessage{}
	dec := json.NewDecoder(strings.NewReader(content))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		// later duplicates override earlier ones
		if key, _ := keyTok.(string); key == "dependencies" || key == "devDependencies" {
			sections[key] = raw
		}
	}

	seen := make(map[string]struct{})
	var names []string
	for _, section := range []string{"dependencies", "devDependencies"} {
		keys, err := objectKeys(sections[section])
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			names = append(names, k)
		}
	}
	return names, nil
}

// objectKeys lists the keys of a JSON object in order; anything else has none
func objectKeys(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		if key, ok := keyTok.(string); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
