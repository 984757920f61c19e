package repository

import "time"

// Consent is the stored authorization decision for one library scope.
type Consent struct {
	ID        string
	Scope     string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConsentEvent records one decision change, newest last.
type ConsentEvent struct {
	ID        string
	Scope     string
	Status    string
	CreatedAt time.Time
}
