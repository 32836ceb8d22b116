package entity

type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	case GenderOther:
		return "Other"
	default:
		return "-"
	}
}

// Profile is the personal details of the signed-in user.
type Profile struct {
	Phone      string
	FullName   string
	Email      string
	BirthDate  string // YYYY-MM-DD
	Gender     Gender
	Address    string
	PostalCode string
}

// ProfileFields are the editable fields of a profile.
type ProfileFields struct {
	FullName   string
	Email      string
	BirthDate  string
	Gender     Gender
	Address    string
	PostalCode string
}
