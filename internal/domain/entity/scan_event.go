package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceClass is the coarse device classification derived from a user agent.
type DeviceClass string

const (
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
	DeviceDesktop DeviceClass = "desktop"
)

// ScanEvent is one analytics sample emitted for a counted scan of a record
// with tracking enabled. Delivery is best-effort; losing individual events
// is acceptable.
type ScanEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	QRID      string             `bson:"qr_id" json:"qr_id"`
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	Device    DeviceClass        `bson:"device" json:"device"`
	Referer   string             `bson:"referer,omitempty" json:"referer,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
