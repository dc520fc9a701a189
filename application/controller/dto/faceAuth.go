package dto

import "arcadeportal.io/application/services/faceauth"

// FaceAuthDTO is the body of signup, login and update requests.
type FaceAuthDTO struct {
	Email     string    `json:"email" validate:"required,email"`
	Embedding []float64 `json:"embedding" validate:"required,min=1,max=4096,finite_vector"`
}

type SignupResponse struct {
	Status faceauth.Status `json:"status"`
}

type LoginResponse struct {
	Verified          bool                  `json:"verified"`
	Similarity        *float64              `json:"similarity,omitempty"`
	Credentials       *faceauth.Credentials `json:"credentials,omitempty"`
	AttemptsRemaining *int                  `json:"attemptsRemaining,omitempty"`
}

type LockedOutResponse struct {
	RetryAfterMinutes int `json:"retryAfterMinutes"`
}

type UpdateResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	LedgerMode          string  `json:"ledgerMode"`
	SimilarityThreshold float64 `json:"similarityThreshold"`
	Dimensionality      int     `json:"dimensionality"`
}
