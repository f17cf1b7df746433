package domain

import "time"

// Filter narrows an audit log listing. Zero-valued fields are ignored; set
// fields are AND-combined. Date bounds are inclusive on CreatedAt.
type Filter struct {
	EntityType EntityType
	Action     Action
	ActorID    string
	EntityID   string
	StartDate  *time.Time
	EndDate    *time.Time
}
