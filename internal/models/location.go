package models

// LocationSelection is a geocoded search result: a display address with
// its coordinates, as returned by the location search providers.
type LocationSelection struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}
