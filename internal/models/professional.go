package models

// CategoryExperience is one (category, years on the platform in it) pair.
type CategoryExperience struct {
	CategoryID int `json:"category_id"`
	Years      int `json:"years"`
}

// Professional is the ranking subject: the read model the scoring engine
// consumes. Coordinates are nullable, a profile without them scores neutral
// on distance.
type Professional struct {
	ID              int                  `json:"id"`
	Latitude        *float64             `json:"latitude,omitempty"`
	Longitude       *float64             `json:"longitude,omitempty"`
	ServiceRadiusKM float64              `json:"service_radius_km"`
	Rating          float64              `json:"rating"`
	ReviewCount     int                  `json:"review_count"`
	ResponseRate    float64              `json:"response_rate"`
	ResponseTimeH   *float64             `json:"response_time_hours,omitempty"`
	Verified        bool                 `json:"verified"`
	Categories      []CategoryExperience `json:"categories,omitempty"`
}

// YearsIn reports experience in the given category and whether the
// professional serves it at all.
func (p Professional) YearsIn(categoryID int) (int, bool) {
	for _, c := range p.Categories {
		if c.CategoryID == categoryID {
			return c.Years, true
		}
	}
	return 0, false
}
