// Package solar predicts clear-sky global horizontal irradiance (GHI)
// using the Ineichen-Perez model. The detector in pkg/detect consumes
// the output as a plain numeric series; it has no dependency on this
// package.
package solar

import (
	"math"
	"time"
)

const (
	solarConstant   = 1361.0 // W/m² at the top of the atmosphere
	defaultLinkeTL  = 2.0    // Linke turbidity typical for clear skies (range 2-6)
	extinctionCoeff = 0.027  // atmospheric extinction coefficient
	dniNormalize    = 0.7    // normalization constant for DNI
)

// Model predicts clear-sky GHI for a fixed observing site.
type Model struct {
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
	Altitude  float64 // meters above sea level
	Turbidity float64 // Linke turbidity factor; 0 selects the clear-sky default
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

func radToDeg(rad float64) float64 {
	return rad * (180.0 / math.Pi)
}

// fixAngle normalizes an angle to the range [0, 360) degrees
func fixAngle(angle float64) float64 {
	return math.Mod(angle+360, 360)
}

// julianDay converts a UTC time to Julian Day
func julianDay(t time.Time) float64 {
	// 2440587.5 is the Julian Day of the Unix epoch
	return 2440587.5 + float64(t.Unix())/86400.0
}

// equationOfTime returns the difference between apparent and mean solar
// time, in minutes.
func equationOfTime(t time.Time) float64 {
	jd := julianDay(t)
	T := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))            // mean longitude of the Sun (degrees)
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))             // mean anomaly of the Sun (degrees)
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)                  // eccentricity of Earth's orbit
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60 // mean obliquity of the ecliptic (degrees)

	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	eqTimeMin := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4 // 4 min per degree

	return eqTimeMin
}

// zenithAngle returns the solar zenith angle in degrees at time t for
// the model's site.
func (m Model) zenithAngle(t time.Time) float64 {
	N := t.YearDay()

	// Solar declination, sinusoidal approximation peaking at solstices
	delta := 23.45 * math.Sin(degToRad(360.0/365.0*float64(N-81)))

	// Hour angle from true solar time (UTC + longitude offset + EoT)
	utcMin := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60.0
	timeOffset := 4*m.Longitude + equationOfTime(t)
	tst := utcMin + timeOffset
	H := (tst / 4) - 180

	latRad := degToRad(m.Latitude)
	deltaRad := degToRad(delta)
	cosThetaZ := math.Sin(latRad)*math.Sin(deltaRad) +
		math.Cos(latRad)*math.Cos(deltaRad)*math.Cos(degToRad(H))

	return radToDeg(math.Acos(cosThetaZ))
}

// GHI returns the predicted clear-sky global horizontal irradiance in
// W/m² at time t (UTC). Returns 0 when the sun is below the horizon.
func (m Model) GHI(t time.Time) float64 {
	thetaZ := m.zenithAngle(t)
	if thetaZ >= 90.0 {
		return 0.0 // sun below horizon
	}

	N := t.YearDay()

	// Extraterrestrial radiation, adjusted for Earth-Sun distance
	g0 := solarConstant * (1 + 0.033*math.Cos(degToRad(360.0*(float64(N)-3)/365.0)))

	tl := m.Turbidity
	if tl == 0 {
		tl = defaultLinkeTL
	}

	// Kasten-Young air mass
	am := 1.0 / (math.Cos(degToRad(thetaZ)) + 0.50572*math.Pow(96.07995-thetaZ, -1.6364))

	// Direct normal irradiance attenuated through the air mass
	dni := g0 * dniNormalize * math.Exp(-extinctionCoeff*am*tl*math.Exp(-m.Altitude/8000.0))

	// Diffuse horizontal irradiance with a seasonal adjustment
	fh := 0.1 + 0.05*math.Sin(math.Pi*float64(N-100)/365.0)
	dhi := fh * g0 * math.Sin(degToRad(thetaZ))

	return dni*math.Cos(degToRad(thetaZ)) + dhi
}

// Series returns n predicted GHI values starting at start (UTC) and
// spaced by interval, aligned sample-for-sample with a measured series
// taken on the same clock.
func (m Model) Series(start time.Time, interval time.Duration, n int) []float64 {
	predicted := make([]float64, n)
	for i := range predicted {
		predicted[i] = m.GHI(start.Add(time.Duration(i) * interval))
	}
	return predicted
}
