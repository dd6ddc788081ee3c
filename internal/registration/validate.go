package registration

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

const (
	packageCodeLength = 13
	packageCodePrefix = "6"
	phoneDigits       = 9
)

// Validate checks a request and returns the normalized registration.
// Checks stop at the first failure. The timestamp is left for the caller.
//
// The package code is measured in characters while the phone is measured in
// digits after stripping. Both rules are kept as they are.
func Validate(req *Request) (*Registration, error) {
	if req == nil {
		return nil, &ValidationError{Kind: MissingField, Field: "packageCode"}
	}

	switch {
	case req.PackageCode == nil:
		return nil, &ValidationError{Kind: MissingField, Field: "packageCode"}
	case req.Phone == nil:
		return nil, &ValidationError{Kind: MissingField, Field: "phone"}
	case req.Latitude == nil:
		return nil, &ValidationError{Kind: MissingField, Field: "latitude"}
	case req.Longitude == nil:
		return nil, &ValidationError{Kind: MissingField, Field: "longitude"}
	}

	code := *req.PackageCode
	if !strings.HasPrefix(code, packageCodePrefix) || utf8.RuneCountInString(code) != packageCodeLength {
		return nil, &ValidationError{Kind: InvalidPackageCode, Field: "packageCode"}
	}

	phone := NormalizePhone(*req.Phone)
	if utf8.RuneCountInString(phone) != phoneDigits {
		return nil, &ValidationError{Kind: InvalidPhone, Field: "phone"}
	}

	return &Registration{
		PackageCode: code,
		Phone:       phone,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		IsPickup:    req.IsPickup != nil && *req.IsPickup,
	}, nil
}

// NormalizePhone drops every non-digit. Full-width digits are folded to ASCII
// first so "９８７" and "987" normalize the same way.
func NormalizePhone(raw string) string {
	folded := width.Narrow.String(raw)
	var b strings.Builder
	for _, r := range folded {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
