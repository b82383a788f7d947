package cache

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	SliceWidth  int    `json:"slice_width"`
	HSlices     int    `json:"h_slices"`
	VSlices     int    `json:"v_slices"`
	Space       int    `json:"space"`
	BorderWidth int    `json:"border_width"`
	BorderColor string `json:"border_color"`
	Format      string `json:"format"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of the artifact rendered from the source
	// whose content hash is sourceHash.
	ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sourceHash, opts)
}
