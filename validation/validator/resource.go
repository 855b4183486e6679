package validator

import (
	"github.com/gabriel-vasile/mimetype"
)

// DetectMIME sniffs data and reports its media type when it, or one of its
// parent types, is in allowed.
func DetectMIME(data []byte, allowed []string) (string, bool) {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return a, true
			}
		}
	}
	return detected.String(), false
}
