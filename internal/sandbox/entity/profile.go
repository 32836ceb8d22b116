package entity

type Profile struct {
	Phone      string
	FullName   string
	Email      string
	BirthDate  string
	Gender     string
	Address    string
	PostalCode string
}
