package validation

import (
	"strconv"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCPF(t *testing.T) {
	valid := []string{"529.982.247-25", "52998224725", "111.444.777-35", "123.456.789-09", "390.533.447-05"}
	for _, c := range valid {
		assert.True(t, ValidCPF(c), c)
	}

	invalid := []string{"529.982.247-24", "52998224735", "1114447773", "", "abc", "111444777350"}
	for _, c := range invalid {
		assert.False(t, ValidCPF(c), c)
	}
}

func TestValidCPFRejectsRepeatedDigits(t *testing.T) {
	for d := 0; d <= 9; d++ {
		cpf := ""
		for i := 0; i < 11; i++ {
			cpf += strconv.Itoa(d)
		}
		assert.False(t, ValidCPF(cpf), cpf)
	}
}

func TestValidCPFCheckDigitsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	cpfFrom := func(base []int, first, second int) string {
		var b strings.Builder
		for _, v := range base {
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteString(strconv.Itoa(first))
		b.WriteString(strconv.Itoa(second))
		return b.String()
	}

	properties.Property("computed check digits validate", prop.ForAll(
		func(base []int) bool {
			first := cpfCheckDigit(base)
			second := cpfCheckDigit(append(append([]int{}, base...), first))
			full := cpfFrom(base, first, second)
			if isRepeated(full) {
				return !ValidCPF(full)
			}
			return ValidCPF(full)
		},
		gen.SliceOfN(9, gen.IntRange(0, 9)),
	))

	properties.Property("a wrong second digit is rejected", prop.ForAll(
		func(base []int, delta int) bool {
			first := cpfCheckDigit(base)
			second := cpfCheckDigit(append(append([]int{}, base...), first))
			return !ValidCPF(cpfFrom(base, first, (second+delta)%10))
		},
		gen.SliceOfN(9, gen.IntRange(0, 9)),
		gen.IntRange(1, 9),
	))

	properties.TestingRun(t)
}

func isRepeated(s string) bool {
	for i := range s {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "529.982.247-25", FormatCPF("52998224725"))
	assert.Equal(t, "123", FormatCPF("123"))
	assert.Equal(t, "(11) 98765-4321", FormatPhone("11987654321"))
	assert.Equal(t, "(11) 3456-7890", FormatPhone("1134567890"))
	assert.Equal(t, "01310-100", FormatCEP("01310100"))
	assert.Equal(t, "0131", FormatCEP("0131"))
}

func TestSimpleChecks(t *testing.T) {
	assert.True(t, ValidCEP("01310-100"))
	assert.False(t, ValidCEP("0131-100"))
	assert.True(t, ValidPhone("(11) 98765-4321"))
	assert.False(t, ValidPhone("98765-4321"))
	assert.True(t, ValidEmail("ana@frota.com.br"))
	assert.False(t, ValidEmail("ana@"))
	assert.False(t, ValidEmail("Ana <ana@frota.com>"))
	assert.True(t, ValidUF("sp"))
	assert.False(t, ValidUF("SPA"))
}

func TestPlates(t *testing.T) {
	assert.Equal(t, "ABC1D23", NormalizePlate("abc-1d23"))
	assert.True(t, ValidPlate("ABC-1234"))
	assert.True(t, ValidPlate("bra2e19"))
	assert.False(t, ValidPlate("AB12345"))
}

func TestRegisterTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterTags(v))

	type form struct {
		CPF   string `validate:"required,cpf"`
		CEP   string `validate:"required,cep"`
		Phone string `validate:"required,phone_br"`
	}

	assert.NoError(t, v.Struct(form{CPF: "529.982.247-25", CEP: "01310-100", Phone: "11987654321"}))

	err := v.Struct(form{CPF: "111.111.111-11", CEP: "01310-100", Phone: "11987654321"})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "cpf", verrs[0].Tag())
}
