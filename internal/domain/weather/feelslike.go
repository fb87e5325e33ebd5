package weather

import "math"

// ApparentTemperature derives a feels-like value (Steadman, non-radiative form):
//
//	AT = T + 0.33·e − 0.70·ws − 4.00, e = rh/100 · 6.105 · exp(17.27·T / (237.7+T))
//
// where T is °C, rh is percent and ws is m/s. The result is rounded to one decimal.
func ApparentTemperature(celsius float64, humidity int, windSpeed float64) float64 {
	rh := math.Max(0, math.Min(100, float64(humidity)))
	if windSpeed < 0 {
		windSpeed = 0
	}
	vapor := rh / 100 * 6.105 * math.Exp(17.27*celsius/(237.7+celsius))
	at := celsius + 0.33*vapor - 0.70*windSpeed - 4.00
	return math.Round(at*10) / 10
}
