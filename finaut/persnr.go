package finaut

import (
	"fmt"
	"time"
)

// Weight vectors for the MOD11 control digit calculation in Norwegian
// personal identification numbers.
var (
	persnrWeights1 = []int{3, 7, 6, 1, 8, 9, 4, 5, 2, 1, 0}
	persnrWeights2 = []int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2, 1}
)

// GenerateTestPersnrs returns 40 valid Norwegian D-numbers for testing.
// D-numbers are test identifiers with day+40 in the first two digits; the
// generated numbers use a birth date 25 years in the past and even individ
// numbers.
func GenerateTestPersnrs() []string {
	day := time.Now().AddDate(0, 0, -25*365)
	datepart := fmt.Sprintf("%02d%02d%02d", day.Day()+40, int(day.Month()), day.Year()%100)

	var result []string
	for inr := 0; inr < 1000; inr += 2 {
		pnr, ok := persnrWithParity(fmt.Sprintf("%s%03d", datepart, inr))
		if ok && validPersnr(pnr) {
			result = append(result, pnr)
		}
	}

	if len(result) > 40 {
		result = result[len(result)-40:]
	}
	return result
}

// persnrWithParity appends the two MOD11 control digits to a 9-digit base.
// It fails for bases whose control digit computation yields 10.
func persnrWithParity(base string) (string, bool) {
	val1 := 11 - weightedSum(base, persnrWeights1[:9])%11
	if val1 >= 10 {
		return "", false
	}
	with10 := fmt.Sprintf("%s%d", base, val1)

	val2 := 11 - weightedSum(with10, persnrWeights2[:10])%11
	if val2 >= 10 {
		return "", false
	}

	return fmt.Sprintf("%s%d", with10, val2), true
}

// validPersnr verifies both MOD11 control digits of an 11-digit number.
func validPersnr(pnr string) bool {
	if len(pnr) != 11 {
		return false
	}
	return weightedSum(pnr, persnrWeights1)%11 == 0 && weightedSum(pnr, persnrWeights2)%11 == 0
}

func weightedSum(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	return sum
}
