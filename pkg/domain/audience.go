package domain

import dErrors "poltem/pkg/domain-errors"

// TargetGender restricts which participants a survey is aimed at.
type TargetGender string

const (
	TargetGenderAll    TargetGender = "all"
	TargetGenderFemale TargetGender = "female"
	TargetGenderMale   TargetGender = "male"
)

// TargetAgeGroup restricts the participant age band of a survey.
type TargetAgeGroup string

const (
	TargetAgeAll     TargetAgeGroup = "all"
	TargetAge18To24  TargetAgeGroup = "18-24"
	TargetAge25To34  TargetAgeGroup = "25-34"
	TargetAge35AndUp TargetAgeGroup = "35+"
)

var validGenders = map[TargetGender]bool{
	TargetGenderAll:    true,
	TargetGenderFemale: true,
	TargetGenderMale:   true,
}

var validAgeGroups = map[TargetAgeGroup]bool{
	TargetAgeAll:     true,
	TargetAge18To24:  true,
	TargetAge25To34:  true,
	TargetAge35AndUp: true,
}

// ParseTargetGender maps empty input to TargetGenderAll.
func ParseTargetGender(s string) (TargetGender, error) {
	if s == "" {
		return TargetGenderAll, nil
	}
	g := TargetGender(s)
	if !validGenders[g] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid target gender")
	}
	return g, nil
}

// ParseTargetAgeGroup maps empty input to TargetAgeAll.
func ParseTargetAgeGroup(s string) (TargetAgeGroup, error) {
	if s == "" {
		return TargetAgeAll, nil
	}
	a := TargetAgeGroup(s)
	if !validAgeGroups[a] {
		return "", dErrors.New(dErrors.CodeValidation, "invalid target age group")
	}
	return a, nil
}
