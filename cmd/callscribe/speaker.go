package main

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Matches recording filenames like Tel-From-Jane_Doe-2025-08-07-18-15-48.m4a
var otherPartyRegex = regexp.MustCompile(`Tel-(?:From|To)-(.+?)-\d{4}-\d{2}-\d{2}-`)

// parseOtherParty extracts the other party's name from the recording filename,
// returning the empty string when the filename does not follow the call
// recorder's naming convention.
func parseOtherParty(path string) string {
	matches := otherPartyRegex.FindStringSubmatch(filepath.Base(path))
	if matches == nil {
		return ""
	}
	return strings.ReplaceAll(matches[1], "_", " ")
}

// defaultOutputPath places the .lrc file beside the input recording
func defaultOutputPath(inputPath string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(filepath.Dir(inputPath), base+".lrc")
}
