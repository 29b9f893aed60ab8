package team

// Team is a stored club row. ID is store-assigned; ShortCode is the unique
// natural key every other dataset joins on.
type Team struct {
	ID        int64
	Name      string
	ShortCode string
	LogoURL   string
	Stadium   string
	Manager   string
}
