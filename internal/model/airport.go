package model

// Airport is a reference row used as flight origin or destination.
//
// Fields:
//
//	ID   – primary key identifier.
//	Code – short airport code such as HAN or SGN.
//	Name – full airport name.
//	City – city served by the airport.
type Airport struct {
	ID   uint64 `json:"id"`   // airports.id
	Code string `json:"code"` // airports.code
	Name string `json:"name"` // airports.name
	City string `json:"city"` // airports.city
}
