package models

import "strings"

// LocatorRequest identifies the vehicle to resolve. At least one field must
// be set; callers validate that with Empty before invoking the resolver.
type LocatorRequest struct {
	// VinLast8 is the trailing part of the VIN (up to 8 characters,
	// case-insensitive).
	VinLast8 string `json:"vinLast8,omitempty" form:"vinLast8"`

	// Stock is the dealer stock number.
	Stock string `json:"stock,omitempty" form:"stock"`

	// DirectURL is a vehicle detail page pasted by the user. The resolver
	// accepts any string here and lets the fetch fail naturally.
	DirectURL string `json:"url,omitempty" form:"url"`

	// MaxAge allows serving a cached result younger than this many
	// milliseconds. Zero disables the cache for this request.
	MaxAge int `json:"maxAge,omitempty" form:"maxAge" binding:"omitempty,min=0"`
}

// Normalize trims surrounding whitespace from every locator field.
func (r *LocatorRequest) Normalize() {
	r.VinLast8 = strings.TrimSpace(r.VinLast8)
	r.Stock = strings.TrimSpace(r.Stock)
	r.DirectURL = strings.TrimSpace(r.DirectURL)
}

// Empty reports whether none of the locator fields is set.
func (r LocatorRequest) Empty() bool {
	return strings.TrimSpace(r.VinLast8) == "" &&
		strings.TrimSpace(r.Stock) == "" &&
		strings.TrimSpace(r.DirectURL) == ""
}
