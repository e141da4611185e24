package imageservice

type CreateImageRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// TransformRequest describes the derived variant to build. Zero fields
// are left out of the chain.
type TransformRequest struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Crop   string `json:"crop,omitempty"`
	Effect string `json:"effect,omitempty"`
}
