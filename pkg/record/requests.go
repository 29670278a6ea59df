package record

// Request/Response DTOs

// ImageUpload carries one image file submitted with a create or update.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CreateRecordRequest contains parameters for creating a new record.
// Both image slots are independently optional.
type CreateRecordRequest struct {
	Title       string
	Description string
	MainImage   *ImageUpload
	Thumbnail   *ImageUpload
}

// UpdateRecordRequest contains parameters for updating a record.
//
// For each image slot: a non-nil upload replaces the stored image; with no
// upload, the Existing* value is retained verbatim, so a nil Existing* clears
// the slot.
type UpdateRecordRequest struct {
	Title             string
	Description       string
	MainImage         *ImageUpload
	Thumbnail         *ImageUpload
	ExistingMainImage *string
	ExistingThumbnail *string
}

// ListRecordsRequest contains paging and search parameters for listing records.
// Search is a case-insensitive substring match over title and description,
// applied before pagination.
type ListRecordsRequest struct {
	Page   int
	Limit  int
	Search string
}

// SaveResult carries the written record plus any non-fatal warnings collected
// along the way. A failed image upload never fails the write as a whole; it
// is reported here instead.
type SaveResult struct {
	Record   *Record  `json:"record"`
	Warnings []string `json:"warnings,omitempty"`
}

// RecordPage is one page of records plus the total match count.
type RecordPage struct {
	Records []*Record `json:"records"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	Limit   int       `json:"limit"`
}
