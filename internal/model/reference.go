package model

// Shop is one row of a city's shop directory. Shop ids are only unique within
// a single city's feed; the same id in another city is a different shop, so a
// Shop is only meaningful next to its CityCode.
type Shop struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	CityCode string `json:"city_code"`
}

// LossType is one row of the global write-off type reference.
type LossType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
