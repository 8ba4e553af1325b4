package catalog

// CreateItemRequest carries a new food item submission.
type CreateItemRequest struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Category    string  `json:"category" validate:"required,max=60"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	Available   bool    `json:"available"`
}

// UpdateItemRequest carries a partial item edit; nil fields keep their
// current values.
type UpdateItemRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=120"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=60"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Available   *bool    `json:"available,omitempty"`
}
