package domain

// Weather is the normalized forecast payload served to clients and stored in
// the response cache.
type Weather struct {
	Location WeatherLocation   `json:"location"`
	Current  CurrentConditions `json:"current"`
	Forecast []ForecastDay     `json:"forecast"`
}

type WeatherLocation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type CurrentConditions struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	FeelsLike   float64 `json:"feelsLike"`
}

type ForecastDay struct {
	Date    string  `json:"date"`
	Day     string  `json:"day"`
	Icon    string  `json:"icon"`
	MaxTemp float64 `json:"maxTemp"`
	MinTemp float64 `json:"minTemp"`
}
