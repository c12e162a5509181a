package ai

import (
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/amishk599/jobintake/internal/model"
)

var validate = validator.New()

// rawCandidate is the JSON shape of one candidate (matches candidateProperties).
type rawCandidate struct {
	ClientName      *string  `json:"client_name"`
	WorkDescription *string  `json:"work_description"`
	Price           *float64 `json:"price"`
	Address         *string  `json:"address"`
	Schedule        *string  `json:"schedule"`
	Phone           *string  `json:"phone"`
	Email           *string  `json:"email"`
}

// placeholders are values models emit for "not found".
var placeholders = map[string]bool{
	"":        true,
	"null":    true,
	"nil":     true,
	"none":    true,
	"n/a":     true,
	"na":      true,
	"unknown": true,
	"-":       true,
}

// toCandidate converts a raw candidate, mapping placeholders to absent fields.
func (r rawCandidate) toCandidate() model.ExtractedJobCandidate {
	return model.ExtractedJobCandidate{
		ClientName:      cleanString(r.ClientName),
		WorkDescription: cleanString(r.WorkDescription),
		Price:           cleanPrice(r.Price),
		Address:         optional(cleanString(r.Address)),
		Schedule:        optional(cleanString(r.Schedule)),
		Phone:           optional(digitsOnly(cleanString(r.Phone))),
		Email:           optional(cleanEmail(cleanString(r.Email))),
	}
}

func cleanString(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if placeholders[strings.ToLower(v)] {
		return ""
	}
	return v
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cleanEmail(s string) string {
	s = strings.ToLower(s)
	if s == "" || validate.Var(s, "email") != nil {
		return ""
	}
	return s
}

// MaxPrice is the largest price kept. Anything above it is model noise and
// is treated as unknown.
const MaxPrice = math.MaxInt32

func cleanPrice(p *float64) int {
	if p == nil || *p <= 0 || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return 0
	}
	if *p >= MaxPrice+0.5 {
		return 0
	}
	return int(math.Round(*p))
}
