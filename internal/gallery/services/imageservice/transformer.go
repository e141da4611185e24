package imageservice

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrEmptyTransform  = errors.New("no transformations requested")
	ErrUntransformable = errors.New("url has no upload segment")
)

// URLTransformer derives edited variants by injecting a transformation
// chain after the provider's upload segment, e.g.
//
//	.../upload/v1/pic.jpg -> .../upload/w_200,h_100,c_fill/v1/pic.jpg
//
// The provider applies the chain on delivery; no pixels move here.
type URLTransformer struct {
	marker string
}

func NewURLTransformer(marker string) URLTransformer {
	if marker == "" {
		marker = "/upload/"
	}

	return URLTransformer{marker: marker}
}

func (t URLTransformer) Transform(original string, req TransformRequest) (string, error) {
	segs := make([]string, 0, 4) //nolint:gomnd

	if req.Width > 0 {
		segs = append(segs, "w_"+strconv.Itoa(req.Width))
	}

	if req.Height > 0 {
		segs = append(segs, "h_"+strconv.Itoa(req.Height))
	}

	if req.Crop != "" {
		segs = append(segs, "c_"+req.Crop)
	}

	if req.Effect != "" {
		segs = append(segs, "e_"+req.Effect)
	}

	if len(segs) == 0 {
		return "", ErrEmptyTransform
	}

	if !strings.Contains(original, t.marker) {
		return "", ErrUntransformable
	}

	chain := t.marker + strings.Join(segs, ",") + "/"

	return strings.Replace(original, t.marker, chain, 1), nil
}
