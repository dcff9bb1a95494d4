package waiver

// UploadInput is a parsed waiver upload form.
type UploadInput struct {
	RegistrationID      string
	PlayerName          string
	Filename            string
	DeclaredContentType string
	Data                []byte
}

type UploadResponse struct {
	WaiverDocumentID string `json:"waiverDocumentId"`
}

// Document is a waiver ready to stream back to an admin.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}
