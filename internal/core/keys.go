package core

import "strings"

// storageKeyPrefix scopes all current-format section blobs.
const storageKeyPrefix = "recipecards/"

// CurrentKey returns the storage key a section's collection is persisted
// under in the current naming scheme.
func CurrentKey(section string) string {
	return storageKeyPrefix + section + ".json"
}

// LegacyKeys returns the storage keys older releases may have persisted a
// section under, in migration precedence order: the dotted per-section
// name first, then the single shared file. Legacy keys are read exactly
// once for migration and never written.
func LegacyKeys(section string) []string {
	return []string{
		".recipecards." + section + ".json",
		".recipecards.json",
	}
}

// SectionFromKey recovers the section identifier from a current-format
// storage key; ok is false for keys outside the current scheme.
func SectionFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, storageKeyPrefix) || !strings.HasSuffix(key, ".json") {
		return "", false
	}
	section := strings.TrimSuffix(strings.TrimPrefix(key, storageKeyPrefix), ".json")
	if section == "" {
		return "", false
	}
	return section, true
}
