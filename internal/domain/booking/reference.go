package booking

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

const ReferencePrefix = "SPB-"

type ReferenceGenerator func() string

// NewReference returns SPB- followed by eight upper-case hex characters.
func NewReference() string {
	return ReferencePrefix + strings.ToUpper(uuid.NewString()[:8])
}

type qrPayload struct {
	Ref  string `json:"ref"`
	TS   int64  `json:"ts"`
	Type string `json:"type"`
}

// QRPayload is the data encoded in the ticket QR code shown at the gate.
func QRPayload(reference string, at time.Time) string {
	b, _ := json.Marshal(qrPayload{Ref: reference, TS: at.UnixMilli(), Type: "parking"})
	return string(b)
}
