package dto

type UploadImageRequest struct {
	// ImageData is a data-URI style payload: "<header>,<base64 body>".
	ImageData string `json:"image_data"`
}

type ImageResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
