package domain

import (
	"regexp"
	"strconv"
)

var galleryURLPattern = regexp.MustCompile(`(\d+)\.html$`)

// ParseExternalID normalizes free-form user input into an ExternalID.
// A base-10 integer is accepted directly; otherwise the trailing
// <digits>.html suffix of a gallery URL is extracted. Unrecognized
// input reports absence, not an error.
func ParseExternalID(input string) (ExternalID, bool) {
	if n, err := strconv.ParseInt(input, 10, 64); err == nil {
		if n <= 0 {
			return 0, false
		}
		return ExternalID(n), true
	}
	match := galleryURLPattern.FindStringSubmatch(input)
	if match == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return ExternalID(n), true
}
