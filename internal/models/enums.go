package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/onboard/internal/common"
)

type ContactPreference string

const (
	ContactEmail ContactPreference = "email"
	ContactPhone ContactPreference = "phone"
	ContactBoth  ContactPreference = "both"
)

type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
)

type GenderPreference string

const (
	PreferMale     GenderPreference = "male"
	PreferFemale   GenderPreference = "female"
	PreferEveryone GenderPreference = "everyone"
)

var (
	ContactPreferences = []ContactPreference{ContactEmail, ContactPhone, ContactBoth}
	Genders            = []Gender{GenderMale, GenderFemale, GenderNonBinary}
	GenderPreferences  = []GenderPreference{PreferMale, PreferFemale, PreferEveryone}
)

func ParseContactPreference(s string) (ContactPreference, error) {
	return parseEnum(s, ContactPreferences)
}

func ParseGender(s string) (Gender, error) {
	return parseEnum(s, Genders)
}

func ParseGenderPreference(s string) (GenderPreference, error) {
	return parseEnum(s, GenderPreferences)
}

func parseEnum[T ~string](s string, values []T) (T, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range values {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownOption, s)
}
