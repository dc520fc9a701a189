package entities

import (
	"time"

	"arcadeportal.io/application/utils"
)

// FaceAuthAudit is one recorded signup, login or update outcome.
type FaceAuthAudit struct {
	Identity   string   `bson:"identity" json:"identity"`
	Operation  string   `bson:"operation" json:"operation"`
	Outcome    string   `bson:"outcome" json:"outcome"`
	SessionID  *string  `bson:"sessionID,omitempty" json:"sessionID,omitempty"`
	Similarity *float64 `bson:"similarity,omitempty" json:"similarity,omitempty"`

	IPAddress  string  `bson:"ipAddress" json:"ipAddress"`
	DeviceID   *string `bson:"deviceID,omitempty" json:"deviceID,omitempty"`
	UserAgent  string  `bson:"userAgent" json:"userAgent"`
	DeviceName string  `bson:"deviceName" json:"deviceName"`
	OS         string  `bson:"os" json:"os"`
	Browser    string  `bson:"browser" json:"browser"`

	At        time.Time `bson:"at" json:"at"`
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model FaceAuthAudit) ParseModel() any {
	if model.ID == "" {
		model.ID = utils.GenerateUULDString()
	}
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	model.UpdatedAt = now
	if model.At.IsZero() {
		model.At = now
	}
	return &model
}
