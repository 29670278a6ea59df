package record

import (
	"time"

	"github.com/google/uuid"
)

// Record is the single persisted entity: a titled piece of content with an
// optional main image and thumbnail. Image fields hold fully-qualified public
// URLs; nil means no image is attached.
type Record struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MainImage   *string   `json:"main_image"`
	Thumbnail   *string   `json:"thumbnail"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HostedImage identifies an image stored at the external image host.
type HostedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}
