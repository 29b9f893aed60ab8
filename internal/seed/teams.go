package seed

import "github.com/eplhub/crawler/internal/domain/ingest"

// Hand-maintained fallback roster used when the clubs page cannot be parsed
// reliably. Short codes must stay aligned with match/standing payload
// conventions.
var seedTeams = []ingest.TeamPayload{
	{Name: "Arsenal FC", ShortCode: "ARS", Stadium: "Emirates Stadium"},
	{Name: "Aston Villa", ShortCode: "AVL", Stadium: "Villa Park"},
	{Name: "Bournemouth", ShortCode: "BOU", Stadium: "Vitality Stadium"},
	{Name: "Brentford", ShortCode: "BRE", Stadium: "Gtech Community Stadium"},
	{Name: "Brighton & Hove Albion", ShortCode: "BHA", Stadium: "Amex Stadium"},
	{Name: "Burnley", ShortCode: "BUR", Stadium: "Turf Moor"},
	{Name: "Chelsea FC", ShortCode: "CHE", Stadium: "Stamford Bridge"},
	{Name: "Crystal Palace", ShortCode: "CRY", Stadium: "Selhurst Park"},
	{Name: "Everton", ShortCode: "EVE", Stadium: "Goodison Park"},
	{Name: "Fulham", ShortCode: "FUL", Stadium: "Craven Cottage"},
	{Name: "Leeds United", ShortCode: "LEE", Stadium: "Elland Road"},
	{Name: "Liverpool FC", ShortCode: "LIV", Stadium: "Anfield"},
	{Name: "Manchester City", ShortCode: "MCI", Stadium: "Etihad Stadium"},
	{Name: "Manchester United", ShortCode: "MUN", Stadium: "Old Trafford"},
	{Name: "Newcastle United", ShortCode: "NEW", Stadium: "St James' Park"},
	{Name: "Nottingham Forest", ShortCode: "NFO", Stadium: "City Ground"},
	{Name: "Sunderland", ShortCode: "SUN", Stadium: "Stadium of Light"},
	{Name: "Tottenham Hotspur", ShortCode: "TOT", Stadium: "Tottenham Hotspur Stadium"},
	{Name: "West Ham United", ShortCode: "WHU", Stadium: "London Stadium"},
	{Name: "Wolverhampton Wanderers", ShortCode: "WOL", Stadium: "Molineux Stadium"},
}

// Teams returns a copy of the fallback roster.
func Teams() []ingest.TeamPayload {
	out := make([]ingest.TeamPayload, len(seedTeams))
	copy(out, seedTeams)
	return out
}
