package gallery

type MediaItem struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Src      string `json:"src"`
	Format   string `json:"format"`
	Filename string `json:"filename"`
}

type GalleryResponse struct {
	Media []MediaItem `json:"media"`
	Count int         `json:"count"`
}
