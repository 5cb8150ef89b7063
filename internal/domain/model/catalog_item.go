package model

type ItemCategory string

const (
	CategoryNecklace    ItemCategory = "necklace"
	CategoryEarring     ItemCategory = "earring"
	CategorySet         ItemCategory = "set"
	CategoryEyewear     ItemCategory = "eyewear"
	CategoryClothing    ItemCategory = "clothing"
	CategoryCustomCombo ItemCategory = "custom_combo"
)

func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryNecklace, CategoryEarring, CategorySet,
		CategoryEyewear, CategoryClothing, CategoryCustomCombo:
		return true
	}
	return false
}

// ImageRef points at an image either by location (remote URL or local asset
// path) or by inline bytes (composed combo references).
type ImageRef struct {
	URL  string `json:"url,omitempty"`
	Data []byte `json:"-"`
}

func (r ImageRef) Empty() bool { return r.URL == "" && len(r.Data) == 0 }

// CatalogItem is a candidate product. Items are immutable and owned by the
// static catalog.
type CatalogItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category ItemCategory `json:"category"`
	Image    ImageRef     `json:"image"`
}

// NormalizedImage is the output of the image normalizer: re-encoded payload
// plus the final dimensions after downscaling.
type NormalizedImage struct {
	Bytes  []byte
	MIME   string
	Width  int
	Height int
}
