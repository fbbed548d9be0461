// Package profile exposes the per-user preference data consumed by matching.
package profile

import "unipool/internal/types"

type Gender string

const (
	GenderWoman     Gender = "woman"
	GenderMan       Gender = "man"
	GenderNonbinary Gender = "nonbinary"
)

// PassengerPref is the passenger-side matching preference.
type PassengerPref string

const (
	PassengerPrefNone       PassengerPref = "none"
	PassengerPrefSameGender PassengerPref = "same_gender"
	PassengerPrefWomenOnly  PassengerPref = "women_only"
)

// DriverPref is the driver-side acceptance preference.
type DriverPref string

const (
	DriverPrefNone              DriverPref = "none"
	DriverPrefWomenAndNonbinary DriverPref = "women_and_nonbinary"
)

// Profile holds a user's gender and preferences. Gender is optional; a nil
// Gender means the user has not disclosed one, and preference checks must
// fail closed rather than treat it as a wildcard.
type Profile struct {
	UserID        types.ID
	Gender        *Gender
	PassengerPref PassengerPref
	DriverPref    DriverPref
}

// Unset returns a profile with no gender and no preferences, used when a
// user has never saved one.
func Unset(userID types.ID) Profile {
	return Profile{UserID: userID, PassengerPref: PassengerPrefNone, DriverPref: DriverPrefNone}
}
