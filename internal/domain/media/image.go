package media

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is an uploaded asset, e.g. a course cover. Variants are optional.
type Image struct {
	ID           string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	OriginalPath string  `gorm:"not null" json:"original_path"`
	WebpPath     *string `json:"webp_path,omitempty"`
	AvifPath     *string `json:"avif_path,omitempty"`
	Alt          string  `json:"alt,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *Image) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type ImageInput struct {
	OriginalPath string  `json:"original_path" binding:"required"`
	WebpPath     *string `json:"webp_path"`
	AvifPath     *string `json:"avif_path"`
	Alt          string  `json:"alt"`
}

// Upsert updates the image with id (when given and found) or creates a new
// one, returning the id to reference.
func Upsert(tx *gorm.DB, id *string, in ImageInput) (*string, error) {
	in.OriginalPath = strings.TrimSpace(in.OriginalPath)

	if id != nil && *id != "" {
		res := tx.Model(&Image{}).Where("id = ?", *id).Updates(map[string]interface{}{
			"original_path": in.OriginalPath,
			"webp_path":     in.WebpPath,
			"avif_path":     in.AvifPath,
			"alt":           in.Alt,
		})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			return id, nil
		}
	}

	img := Image{
		OriginalPath: in.OriginalPath,
		WebpPath:     in.WebpPath,
		AvifPath:     in.AvifPath,
		Alt:          in.Alt,
	}
	if err := tx.Create(&img).Error; err != nil {
		return nil, err
	}
	return &img.ID, nil
}
