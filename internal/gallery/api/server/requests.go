package server

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateImageRequest struct {
	Title string `json:"title"`
}

type TagsRequest struct {
	Names []string `json:"names"`
}

type CreateCommentRequest struct {
	ImageID int64  `json:"image_id"` //nolint:tagliatelle
	Text    string `json:"text"`
}

type UpdateCommentRequest struct {
	Text string `json:"text"`
}

type UpdateRatingRequest struct {
	Value int `json:"value"`
}
