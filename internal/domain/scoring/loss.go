package scoring

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ten = decimal.NewFromInt(10)
	one = decimal.NewFromInt(1)
)

// ErrNotPositive стоимость не является положительным числом
var ErrNotPositive = errors.New("value is not a positive number")

// ErrOutOfRange стоимость не представима в DOUBLE PRECISION
var ErrOutOfRange = errors.New("value is out of range")

// ParseCost разбирает стоимость сотрудника, введенную в свободной форме.
// Допускаются пробелы между разрядами и запятая в качестве десятичного разделителя.
func ParseCost(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(" ", "", "\u00a0", "", "_", "").Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}
	if f := d.InexactFloat64(); f == 0 || math.IsInf(f, 0) {
		return decimal.Zero, ErrOutOfRange
	}
	return d, nil
}

// LossEstimate оценка денежных потерь команды
type LossEstimate struct {
	// PerPerson потери на одного сотрудника
	PerPerson decimal.Decimal
	// Total потери на всю команду
	Total decimal.Decimal
}

// Loss считает потери (1 - average/10) * cost и умножает на размер команды.
// Если стоимость не указана или не является положительным числом, оценка отсутствует.
func Loss(average float64, personCost *string, teamSize *int) (LossEstimate, bool) {
	if personCost == nil {
		return LossEstimate{}, false
	}
	cost, err := ParseCost(*personCost)
	if err != nil {
		return LossEstimate{}, false
	}

	avg := decimal.NewFromFloat(average)
	perPerson := one.Sub(avg.Div(ten)).Mul(cost)

	size := decimal.Zero
	if teamSize != nil {
		size = decimal.NewFromInt(int64(*teamSize))
	}
	return LossEstimate{
		PerPerson: perPerson,
		Total:     perPerson.Mul(size),
	}, true
}
