package events

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
)

// IsValid checks if the event status is valid
func (s EventStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of EventStatus
func (s EventStatus) String() string {
	return string(s)
}

// CanPublish reports whether an event in this status may be published
func (s EventStatus) CanPublish() bool {
	return s == StatusDraft
}

// IsBookable reports whether bookings may be taken against this status
func (s EventStatus) IsBookable() bool {
	return s == StatusPublished
}
