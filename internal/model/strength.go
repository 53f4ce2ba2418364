package model

// ScoreRequest represents a password strength request.
type ScoreRequest struct {
	Password   string   `json:"password"`
	UserInputs []string `json:"user_inputs"`
}

// ScoreResponse represents a password strength response.
type ScoreResponse struct {
	Score         float64  `json:"score"`
	Strength      string   `json:"strength"`
	Percent       float64  `json:"percent"`
	Color         string   `json:"color"`
	Acceptable    bool     `json:"acceptable"`
	WeakFragments []string `json:"weak_fragments,omitempty"`
	Estimate      Estimate `json:"estimate"`
}

// Estimate is an entropy based second opinion on a password.
type Estimate struct {
	Entropy   float64 `json:"entropy"`
	Score     int     `json:"score"`
	CrackTime string  `json:"crack_time"`
}
