package checkpoint

import "net/url"

const LogMaskVal = "xxxxxx"

// Mask replaces the values for each key in vals with LogMaskVal,
// squashing multiple values into one.
func Mask(vals url.Values, keys ...string) {
	for _, key := range keys {
		if _, ok := vals[key]; ok {
			vals[key] = []string{LogMaskVal}
		}
	}
}
