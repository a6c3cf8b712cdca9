package model

// Dimension identifies one independently elicited axis of user intent.
type Dimension string

const (
	DimensionPrice    Dimension = "price"
	DimensionArea     Dimension = "area"
	DimensionBedrooms Dimension = "bedrooms"
	DimensionTags     Dimension = "tags"
	DimensionNotes    Dimension = "notes"
)

// Dimensions is the fixed elicitation order of the conversation.
var Dimensions = []Dimension{
	DimensionPrice,
	DimensionArea,
	DimensionBedrooms,
	DimensionTags,
	DimensionNotes,
}

// PreferenceProfile holds the structured output of elicitation.
// A nil field means the dimension is unset; unset dimensions score
// neutral during matching, never as a mismatch.
type PreferenceProfile struct {
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`
	AreaMin  *float64 `json:"area_min,omitempty"`
	AreaMax  *float64 `json:"area_max,omitempty"`
	Bedrooms *int     `json:"bedrooms,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// ProfileUpdate is the subset of profile fields produced by one
// extraction call. Fields outside the requested dimension are only set
// when the model explicitly returned them.
type ProfileUpdate struct {
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`
	AreaMin  *float64 `json:"area_min,omitempty"`
	AreaMax  *float64 `json:"area_max,omitempty"`
	Bedrooms *int     `json:"bedrooms,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Notes    *string  `json:"notes,omitempty"`
}

// HasPrice reports whether the price dimension is set.
func (p *PreferenceProfile) HasPrice() bool {
	return p.PriceMin != nil || p.PriceMax != nil
}

// HasArea reports whether the area dimension is set.
func (p *PreferenceProfile) HasArea() bool {
	return p.AreaMin != nil || p.AreaMax != nil
}

// Merge applies a partial update to the profile. Later answers win.
func (p *PreferenceProfile) Merge(u *ProfileUpdate) {
	if u == nil {
		return
	}
	if u.PriceMin != nil {
		p.PriceMin = u.PriceMin
	}
	if u.PriceMax != nil {
		p.PriceMax = u.PriceMax
	}
	if u.AreaMin != nil {
		p.AreaMin = u.AreaMin
	}
	if u.AreaMax != nil {
		p.AreaMax = u.AreaMax
	}
	if u.Bedrooms != nil {
		p.Bedrooms = u.Bedrooms
	}
	if len(u.Tags) > 0 {
		p.Tags = append([]string(nil), u.Tags...)
	}
	if u.Notes != nil {
		p.Notes = u.Notes
	}
}

// Clone returns a deep copy of the profile.
func (p PreferenceProfile) Clone() PreferenceProfile {
	out := p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return out
}
