// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationFinalizedEvent is published when a draft reservation is
// finalized. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type ReservationFinalizedEvent struct {
	ReservationID   uint64   `json:"reservation_id"`
	UserID          uint64   `json:"user_id"`
	PickupLocation  string   `json:"pickup_location"`
	DropoffLocation string   `json:"dropoff_location"`
	DriverName      string   `json:"driver_name"`
	CarIDs          []uint64 `json:"car_ids"`
	CarCount        int      `json:"car_count"`
	FinalizedAt     string   `json:"finalized_at"`
}
