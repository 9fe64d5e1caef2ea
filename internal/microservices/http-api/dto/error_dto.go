package dto

import "animehub/pkg/models"

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string           `json:"error"`
	Kind    models.ErrorKind `json:"kind,omitempty"`
	Source  models.Source    `json:"source,omitempty"`
	Primary string           `json:"primary,omitempty"`
}
