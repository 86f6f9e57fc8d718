package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveLevelKnownValues(t *testing.T) {
	cases := []struct {
		experience int
		level      int
		untilNext  int
	}{
		{0, 0, 100},
		{99, 0, 1},
		{100, 1, 200},
		{299, 1, 1},
		{300, 2, 300},
		{600, 3, 400},
		{10_000_000, 446, 12_800},
	}

	for _, tc := range cases {
		level, untilNext := DeriveLevel(tc.experience)
		assert.Equal(t, tc.level, level, "level for experience %d", tc.experience)
		assert.Equal(t, tc.untilNext, untilNext, "untilNext for experience %d", tc.experience)
	}
}

func TestDeriveLevelMonotonic(t *testing.T) {
	prev := 0
	for e := 0; e <= 10_000_000; e += 997 {
		level, untilNext := DeriveLevel(e)
		if level < prev {
			t.Fatalf("level decreased at experience %d: %d < %d", e, level, prev)
		}
		if untilNext <= 0 {
			t.Fatalf("untilNext not positive at experience %d: %d", e, untilNext)
		}
		prev = level
	}
}

func TestDeriveLevelBoundaries(t *testing.T) {
	// Level L starts exactly at 50*L*(L+1) experience
	for l := 1; l <= 446; l++ {
		start := 50 * l * (l + 1)
		level, untilNext := DeriveLevel(start)
		assert.Equal(t, l, level)
		assert.Equal(t, 100*(l+1), untilNext)

		level, untilNext = DeriveLevel(start - 1)
		assert.Equal(t, l-1, level)
		assert.Equal(t, 1, untilNext)
	}
}

func TestSetExperienceRecomputesLevel(t *testing.T) {
	p := &Player{}
	p.SetExperience(100)
	assert.Equal(t, 100, p.Experience)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 200, p.UntilNextLevel)
}

func TestParseRaceAndProfession(t *testing.T) {
	r, err := ParseRace("ELF")
	assert.NoError(t, err)
	assert.Equal(t, RaceElf, r)

	_, err = ParseRace("elf")
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := ParseProfession("NAZGUL")
	assert.NoError(t, err)
	assert.Equal(t, ProfessionNazgul, p)

	_, err = ParseProfession("")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
