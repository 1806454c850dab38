package validation

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	oldPlateRegex      = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	mercosulPlateRegex = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
	ufRegex            = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ValidCEP accepts 8 digits with or without the hyphen.
func ValidCEP(cep string) bool {
	return len(OnlyDigits(cep)) == 8 && len(strings.TrimSpace(cep)) <= 9
}

// ValidPhone accepts Brazilian landline (10) and mobile (11) numbers.
func ValidPhone(phone string) bool {
	n := len(OnlyDigits(phone))
	return n == 10 || n == 11
}

func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email, ".")
}

func ValidUF(uf string) bool {
	return ufRegex.MatchString(strings.ToUpper(uf))
}

// FormatCPF renders 11 digits as 000.000.000-00. Other inputs are returned
// unchanged.
func FormatCPF(cpf string) string {
	d := OnlyDigits(cpf)
	if len(d) != 11 {
		return cpf
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// FormatPhone renders (00) 0000-0000 or (00) 00000-0000.
func FormatPhone(phone string) string {
	d := OnlyDigits(phone)
	switch len(d) {
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
	return phone
}

// FormatCEP renders 00000-000.
func FormatCEP(cep string) string {
	d := OnlyDigits(cep)
	if len(d) != 8 {
		return cep
	}
	return d[:5] + "-" + d[5:]
}

// NormalizePlate upper-cases a plate and drops separators.
func NormalizePlate(input string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(input) {
		if r == '-' || r == ' ' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidPlate accepts the old ABC1234 and the Mercosul ABC1D23 formats.
func ValidPlate(plate string) bool {
	p := NormalizePlate(plate)
	return oldPlateRegex.MatchString(p) || mercosulPlateRegex.MatchString(p)
}
