package model

import "time"

// GeoPoint is a GeoJSON point: coordinates are [longitude, latitude]
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// OwnerSnapshot is a copy of the owning user's identity embedded into a cat
// at write time. It is intentionally not kept in sync with later user edits.
type OwnerSnapshot struct {
	ID       string `json:"_id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

// Cat represents one cat record
type Cat struct {
	ID        string         `json:"id"`
	CatName   string         `json:"cat_name"`
	Weight    float64        `json:"weight"`
	Filename  string         `json:"filename"`
	Birthdate *time.Time     `json:"birthdate,omitempty"` // Pointer for optional field
	Location  *GeoPoint      `json:"location,omitempty"`
	Owner     *OwnerSnapshot `json:"owner"`
}

// CreateCatRequest carries the multipart form fields for a new cat.
// The image file and the location come from collaborators, not this payload.
type CreateCatRequest struct {
	CatName   string  `form:"cat_name" binding:"required,min=2"`
	Weight    float64 `form:"weight" binding:"required"`
	Birthdate string  `form:"birthdate" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateCatRequest allows partial owner-scoped updates
type UpdateCatRequest struct {
	CatName   *string  `form:"cat_name" json:"cat_name,omitempty" binding:"omitempty,min=2"`
	Weight    *float64 `form:"weight" json:"weight,omitempty"`
	Birthdate *string  `form:"birthdate" json:"birthdate,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// AdminUpdateCatRequest additionally lets an admin reassign the owner snapshot
type AdminUpdateCatRequest struct {
	CatName   *string        `json:"cat_name,omitempty" binding:"omitempty,min=2"`
	Weight    *float64       `json:"weight,omitempty"`
	Birthdate *string        `json:"birthdate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Owner     *OwnerSnapshot `json:"owner,omitempty"`
}
