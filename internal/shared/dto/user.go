// Package dto holds payloads exchanged between services.
package dto

// UserDTO is the user representation returned by user-service.
type UserDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}
