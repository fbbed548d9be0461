package matching

import (
	"context"
	"testing"
	"time"

	"unipool/internal/modules/profile"
	"unipool/internal/modules/ride"
	"unipool/internal/types"
)

type fakeProfiles struct {
	byUser map[types.ID]profile.Profile
}

func (f *fakeProfiles) Get(_ context.Context, userID types.ID) (profile.Profile, error) {
	if p, ok := f.byUser[userID]; ok {
		return p, nil
	}
	return profile.Unset(userID), nil
}

func gender(g profile.Gender) *profile.Gender { return &g }

var (
	campus  = types.Point{Lat: 3.1201, Lng: 101.6544}
	station = types.Point{Lat: 3.1339, Lng: 101.6869}
	baseDep = time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)
)

// offsetKm shifts a point north by roughly the given number of kilometres.
func offsetKm(p types.Point, km float64) types.Point {
	return types.Point{Lat: p.Lat + km/111.0, Lng: p.Lng}
}

func openRide(id, driver types.ID, origin, dest types.Point, at time.Time, seats int) ride.Ride {
	return ride.Ride{
		ID:             id,
		DriverID:       driver,
		Origin:         types.Place{Point: origin},
		Dest:           types.Place{Point: dest},
		ScheduledAt:    at,
		SeatsTotal:     4,
		SeatsRemaining: seats,
		Status:         ride.StatusScheduled,
		DriverPref:     profile.DriverPrefNone,
	}
}

func baseRequest() TripRequest {
	return TripRequest{
		PassengerID: "p1",
		Origin:      campus,
		Dest:        station,
		SeatsNeeded: 1,
		DepartAfter: baseDep,
	}
}

func TestFindMatches_HardFilters(t *testing.T) {
	profiles := &fakeProfiles{byUser: map[types.ID]profile.Profile{}}

	tests := []struct {
		name string
		r    ride.Ride
		want bool
	}{
		{"eligible ride passes", openRide("r1", "d1", campus, station, baseDep.Add(time.Hour), 2), true},
		{"cancelled ride excluded", func() ride.Ride {
			r := openRide("r2", "d1", campus, station, baseDep.Add(time.Hour), 2)
			r.Status = ride.StatusCancelled
			return r
		}(), false},
		{"in-progress ride excluded", func() ride.Ride {
			r := openRide("r3", "d1", campus, station, baseDep.Add(time.Hour), 2)
			r.Status = ride.StatusInProgress
			return r
		}(), false},
		{"full ride excluded", openRide("r4", "d1", campus, station, baseDep.Add(time.Hour), 0), false},
		{"origin beyond 2km excluded", openRide("r5", "d1", offsetKm(campus, 2.5), station, baseDep.Add(time.Hour), 2), false},
		{"destination beyond 2km excluded", openRide("r6", "d1", campus, offsetKm(station, 2.5), baseDep.Add(time.Hour), 2), false},
		{"earlier than requested departure excluded", openRide("r7", "d1", campus, station, baseDep.Add(-time.Minute), 2), false},
		{"departure exactly at requested time passes", openRide("r8", "d1", campus, station, baseDep, 2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindMatches(context.Background(), baseRequest(), []ride.Ride{tt.r}, profiles)
			if err != nil {
				t.Fatalf("FindMatches() error = %v", err)
			}
			if (len(got) == 1) != tt.want {
				t.Errorf("FindMatches() returned %d rides, want match=%v", len(got), tt.want)
			}
		})
	}
}

func TestFindMatches_SeatsNeeded(t *testing.T) {
	profiles := &fakeProfiles{byUser: map[types.ID]profile.Profile{}}
	r := openRide("r1", "d1", campus, station, baseDep.Add(time.Hour), 2)

	req := baseRequest()
	req.SeatsNeeded = 3
	got, err := FindMatches(context.Background(), req, []ride.Ride{r}, profiles)
	if err != nil {
		t.Fatalf("FindMatches() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ride with 2 seats matched a 3-seat request")
	}

	req.SeatsNeeded = 2
	got, err = FindMatches(context.Background(), req, []ride.Ride{r}, profiles)
	if err != nil {
		t.Fatalf("FindMatches() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ride with 2 seats did not match a 2-seat request")
	}
}

func TestFindMatches_GenderFailClosed(t *testing.T) {
	r := openRide("r1", "d1", campus, station, baseDep.Add(time.Hour), 2)

	tests := []struct {
		name      string
		passenger profile.Profile
		driver    profile.Profile
		ridePref  profile.DriverPref
		want      bool
	}{
		{
			name:      "women-only preference with unset driver gender never matches",
			passenger: profile.Profile{UserID: "p1", Gender: gender(profile.GenderWoman), PassengerPref: profile.PassengerPrefWomenOnly},
			driver:    profile.Unset("d1"),
			ridePref:  profile.DriverPrefNone,
			want:      false,
		},
		{
			name:      "women-only preference with woman driver matches",
			passenger: profile.Profile{UserID: "p1", Gender: gender(profile.GenderWoman), PassengerPref: profile.PassengerPrefWomenOnly},
			driver:    profile.Profile{UserID: "d1", Gender: gender(profile.GenderWoman)},
			ridePref:  profile.DriverPrefNone,
			want:      true,
		},
		{
			name:      "women-only preference with man driver does not match",
			passenger: profile.Profile{UserID: "p1", Gender: gender(profile.GenderWoman), PassengerPref: profile.PassengerPrefWomenOnly},
			driver:    profile.Profile{UserID: "d1", Gender: gender(profile.GenderMan)},
			ridePref:  profile.DriverPrefNone,
			want:      false,
		},
		{
			name:      "same-gender preference with own gender unset fails closed",
			passenger: profile.Profile{UserID: "p1", PassengerPref: profile.PassengerPrefSameGender},
			driver:    profile.Profile{UserID: "d1", Gender: gender(profile.GenderMan)},
			ridePref:  profile.DriverPrefNone,
			want:      false,
		},
		{
			name:      "same-gender preference with matching genders passes",
			passenger: profile.Profile{UserID: "p1", Gender: gender(profile.GenderMan), PassengerPref: profile.PassengerPrefSameGender},
			driver:    profile.Profile{UserID: "d1", Gender: gender(profile.GenderMan)},
			ridePref:  profile.DriverPrefNone,
			want:      true,
		},
		{
			name:      "driver women-and-nonbinary pref excludes unset passenger gender",
			passenger: profile.Unset("p1"),
			driver:    profile.Profile{UserID: "d1", Gender: gender(profile.GenderWoman)},
			ridePref:  profile.DriverPrefWomenAndNonbinary,
			want:      false,
		},
		{
			name:      "driver women-and-nonbinary pref admits nonbinary passenger",
			passenger: profile.Profile{UserID: "p1", Gender: gender(profile.GenderNonbinary)},
			driver:    profile.Profile{UserID: "d1", Gender: gender(profile.GenderWoman)},
			ridePref:  profile.DriverPrefWomenAndNonbinary,
			want:      true,
		},
		{
			name:      "driver women-and-nonbinary pref excludes man passenger",
			passenger: profile.Profile{UserID: "p1", Gender: gender(profile.GenderMan)},
			driver:    profile.Profile{UserID: "d1", Gender: gender(profile.GenderWoman)},
			ridePref:  profile.DriverPrefWomenAndNonbinary,
			want:      false,
		},
		{
			name:      "no preferences on either side always compatible",
			passenger: profile.Unset("p1"),
			driver:    profile.Unset("d1"),
			ridePref:  profile.DriverPrefNone,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := r
			candidate.DriverPref = tt.ridePref
			profiles := &fakeProfiles{byUser: map[types.ID]profile.Profile{
				"p1": tt.passenger,
				"d1": tt.driver,
			}}
			got, err := FindMatches(context.Background(), baseRequest(), []ride.Ride{candidate}, profiles)
			if err != nil {
				t.Fatalf("FindMatches() error = %v", err)
			}
			if (len(got) == 1) != tt.want {
				t.Errorf("got %d matches, want match=%v", len(got), tt.want)
			}
		})
	}
}

func TestFindMatches_RankingAndTiers(t *testing.T) {
	profiles := &fakeProfiles{byUser: map[types.ID]profile.Profile{}}

	exact := openRide("exact", "d1", campus, station, baseDep.Add(2*time.Hour), 2)
	near := openRide("near", "d2", offsetKm(campus, 0.5), offsetKm(station, 0.5), baseDep.Add(time.Hour), 2)
	far := openRide("far", "d3", offsetKm(campus, 1.8), offsetKm(station, 1.8), baseDep.Add(time.Hour), 2)

	got, err := FindMatches(context.Background(), baseRequest(), []ride.Ride{far, exact, near}, profiles)
	if err != nil {
		t.Fatalf("FindMatches() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].Ride.ID != "exact" || got[1].Ride.ID != "near" || got[2].Ride.ID != "far" {
		t.Errorf("unexpected ranking: %s, %s, %s", got[0].Ride.ID, got[1].Ride.ID, got[2].Ride.ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not descending at index %d", i)
		}
	}
	if got[0].Tier != TierBest {
		t.Errorf("exact-route ride tier = %s, want %s", got[0].Tier, TierBest)
	}
	if got[2].Tier == TierBest {
		t.Errorf("far ride should not land in the best tier")
	}
}

func TestFindMatches_TieBreaksOnEarlierDeparture(t *testing.T) {
	profiles := &fakeProfiles{byUser: map[types.ID]profile.Profile{}}

	later := openRide("later", "d1", campus, station, baseDep.Add(3*time.Hour), 2)
	sooner := openRide("sooner", "d2", campus, station, baseDep.Add(time.Hour), 2)

	got, err := FindMatches(context.Background(), baseRequest(), []ride.Ride{later, sooner}, profiles)
	if err != nil {
		t.Fatalf("FindMatches() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Ride.ID != "sooner" {
		t.Errorf("tie should break on earlier departure, got %s first", got[0].Ride.ID)
	}
}

func TestFindMatches_InvalidSeats(t *testing.T) {
	profiles := &fakeProfiles{byUser: map[types.ID]profile.Profile{}}
	req := baseRequest()
	req.SeatsNeeded = 0
	if _, err := FindMatches(context.Background(), req, nil, profiles); err != ErrBadRequest {
		t.Errorf("FindMatches() error = %v, want ErrBadRequest", err)
	}
}

func TestFindMatches_EmptyCandidates(t *testing.T) {
	profiles := &fakeProfiles{byUser: map[types.ID]profile.Profile{}}
	got, err := FindMatches(context.Background(), baseRequest(), nil, profiles)
	if err != nil {
		t.Fatalf("FindMatches() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches from empty candidates")
	}
}
