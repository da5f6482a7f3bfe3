package domain

// QueryOptions are the provider filters sent with every geocoding request.
type QueryOptions struct {
	// ISO 3166 alpha-2 country codes.
	Countries []string `validate:"omitempty,dive,iso3166_1_alpha2"`
	Types     []string `validate:"omitempty,dive,oneof=country region postcode district place locality neighborhood address poi"`
	// Proximity biases ranking toward this point. Nil disables the bias.
	Proximity *Coordinates
	Limit     int    `validate:"min=0,max=10"`
	Language  string `validate:"omitempty,bcp47_language_tag"`
}
