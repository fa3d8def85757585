package application

import "time"

// Clock dipakai service untuk timestamp created_at, supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai waktu UTC sekarang
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns T.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }
