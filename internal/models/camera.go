package models

// CameraStation is a station with a platform camera ("ISIC" screen)
type CameraStation struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	ImageURL string `json:"imageUrl"`
}
