package strength

const (
	weakScore = 67
	goodScore = 100
)

// Label names the strength band score falls in.
func Label(score float64) string {
	switch {
	case score < AcceptableScore:
		return "Unacceptable"
	case score < weakScore:
		return "Weak"
	case score < goodScore:
		return "Good"
	default:
		return "Excellent"
	}
}

// Percent maps score to a meter fill between 5 and 100.
func Percent(score float64) float64 {
	return min(max(score, 5), 100)
}

// Color returns the meter color for score.
func Color(score float64) string {
	switch {
	case score < AcceptableScore:
		return "#a91717"
	case score < weakScore:
		return "#c2c21a"
	case score < goodScore:
		return "#2cba19"
	default:
		return "#246e24"
	}
}

// Meter is what a strength meter shows for a password.
type Meter struct {
	Score   float64
	Label   string
	Percent float64
	Color   string
}

// NewMeter builds the meter for password scored as score. An empty password
// drains the meter.
func NewMeter(password string, score float64) Meter {
	if password == "" {
		return Meter{Score: score, Label: "\u00a0"}
	}
	return Meter{
		Score:   score,
		Label:   Label(score),
		Percent: Percent(score),
		Color:   Color(score),
	}
}
