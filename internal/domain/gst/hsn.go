package gst

import "errors"

// ErrInvalidHSN rejects malformed HSN classification codes.
var ErrInvalidHSN = errors.New("gst: HSN code must be 4, 6 or 8 digits")

// ValidateHSN checks an HSN (Harmonized System Nomenclature) code: 4, 6 or 8
// numeric digits. An empty code is allowed — services and exempt goods may
// not carry one.
func ValidateHSN(code string) error {
	if code == "" {
		return nil
	}
	if len(code) != 4 && len(code) != 6 && len(code) != 8 {
		return ErrInvalidHSN
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrInvalidHSN
		}
	}
	return nil
}
